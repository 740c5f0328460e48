package handler

import (
	"encoding/base64"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"

	"inkwell/domain"
)

var sanitizerStrict = bluemonday.StrictPolicy()

// categories drive the navigation query on the create route and the home
// page filter links.
var categories = []string{"All", "Music", "Movies", "Sports", "Tech", "Fashion"}

type PostDTO struct {
	ID          string
	Title       string
	Description template.HTML
	Picture     template.URL
	Username    string
	Categories  string
	CreatedDate string
}

func postDTO(p domain.Post) PostDTO {
	return PostDTO{
		ID:          p.ID,
		Title:       sanitizerStrict.Sanitize(p.Title),
		Description: safeMd(p.Description),
		Picture:     template.URL(p.Picture),
		Username:    sanitizerStrict.Sanitize(p.Username),
		Categories:  p.Categories,
		CreatedDate: p.CreatedDate.Format(time.DateOnly),
	}
}

type indexPage struct {
	Frame      Frame
	Posts      []PostDTO
	Category   string
	Categories []string
	Error      string
}

func (h *Handler) Home(c echo.Context) error {
	category := c.QueryParam("category")
	filter := category
	if filter == "All" {
		filter = ""
	}

	page := indexPage{
		Frame:      h.frame(c),
		Category:   category,
		Categories: categories,
	}

	posts, env, err := h.API.GetAllPosts(c.Request().Context(), filter)
	switch {
	case err != nil:
		c.Logger().Errorf("fetch posts: %v", err)
		page.Error = "Something went wrong!"
	case !env.IsSuccess:
		page.Error = env.Message
		if page.Error == "" {
			page.Error = "Something went wrong!"
		}
	default:
		for _, p := range posts {
			page.Posts = append(page.Posts, postDTO(p))
		}
	}

	return c.Render(http.StatusOK, "index.html", page)
}

type detailsPage struct {
	Frame Frame
	Post  PostDTO
}

func (h *Handler) GetDetails(c echo.Context) error {
	id := c.Param("id")

	post, env, err := h.API.GetPostByID(c.Request().Context(), id)
	if err != nil {
		c.Logger().Errorf("fetch post %s: %v", id, err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	if !env.IsSuccess {
		return echo.NewHTTPError(http.StatusNotFound)
	}

	return c.Render(http.StatusOK, "details.html", detailsPage{
		Frame: h.frame(c),
		Post:  postDTO(post),
	})
}

type createPage struct {
	Frame    Frame
	Category string
	Error    string
	Draft    domain.Post
	// Picture mirrors Draft.Picture as a URL type so the inline data URL
	// preview is not stripped by the template engine.
	Picture template.URL
}

func (h *Handler) GetCreateForm(c echo.Context) error {
	if h.account(c).Empty() {
		return c.Redirect(http.StatusFound, "/account")
	}
	return c.Render(http.StatusOK, "create.html", createPage{
		Frame:    h.frame(c),
		Category: categoryParam(c),
	})
}

func (h *Handler) CreatePost(c echo.Context) error {
	account := h.account(c)
	if account.Empty() {
		return c.Redirect(http.StatusFound, "/account")
	}

	category := categoryParam(c)
	draft := domain.Post{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Username:    account.Username,
		Categories:  category,
		CreatedDate: time.Now().UTC(),
	}

	if fh, err := c.FormFile("picture"); err == nil {
		encoded, err := inlineDataURL(fh)
		if err != nil {
			c.Logger().Errorf("encode picture: %v", err)
			return c.Render(http.StatusOK, "create.html", createPage{
				Frame:    h.frame(c),
				Category: category,
				Error:    "Could not read the selected image",
				Draft:    draft,
				Picture:  template.URL(draft.Picture),
			})
		}
		draft = draft.WithPicture(encoded)
	}

	if err := draft.Validate(); err != nil {
		return c.Render(http.StatusOK, "create.html", createPage{
			Frame:    h.frame(c),
			Category: category,
			Error:    err.Error(),
			Draft:    draft,
			Picture:  template.URL(draft.Picture),
		})
	}

	env, err := h.API.CreatePost(c.Request().Context(), draft)
	if err != nil || !env.IsSuccess {
		if err != nil {
			c.Logger().Errorf("create post: %v", err)
		}
		setFlash(c, flashError, "Something went wrong!")
		return c.Redirect(http.StatusFound, "/create?category="+url.QueryEscape(category))
	}

	setFlash(c, flashSuccess, "Post is Published!")
	return c.Redirect(http.StatusFound, "/")
}

type updatePage struct {
	Frame   Frame
	ID      string
	Post    domain.Post
	Picture template.URL
	Error   string
}

func (h *Handler) GetUpdateForm(c echo.Context) error {
	id := c.Param("id")

	post, env, err := h.API.GetPostByID(c.Request().Context(), id)
	if err != nil {
		c.Logger().Errorf("fetch post %s: %v", id, err)
	}
	if err != nil || !env.IsSuccess {
		// The form stays on its empty defaults when the post can't be loaded.
		post = domain.Post{}
	}

	return c.Render(http.StatusOK, "update.html", updatePage{
		Frame:   h.frame(c),
		ID:      id,
		Post:    post,
		Picture: template.URL(post.Picture),
	})
}

// UpdatePost refetches the post under the path id, overlays the edited
// fields, uploads a replacement picture when one was attached, and resubmits
// the whole post. Working from the path id on every stage keeps the upload
// from ever landing on a stale post.
func (h *Handler) UpdatePost(c echo.Context) error {
	id := c.Param("id")
	ctx := c.Request().Context()

	post, env, err := h.API.GetPostByID(ctx, id)
	if err != nil || !env.IsSuccess {
		if err != nil {
			c.Logger().Errorf("fetch post %s: %v", id, err)
		}
		setFlash(c, flashError, "Something went wrong!")
		return c.Redirect(http.StatusFound, "/update/"+url.PathEscape(id))
	}

	post.ID = id
	post.Title = c.FormValue("title")
	post.Description = c.FormValue("description")

	if fh, err := c.FormFile("picture"); err == nil {
		src, err := fh.Open()
		if err != nil {
			c.Logger().Errorf("open picture: %v", err)
			setFlash(c, flashError, "Something went wrong!")
			return c.Redirect(http.StatusFound, "/update/"+url.PathEscape(id))
		}
		stored, upEnv, err := h.API.UploadFile(ctx, fh.Filename, src)
		src.Close()
		if err != nil {
			c.Logger().Errorf("upload picture: %v", err)
			setFlash(c, flashError, "Something went wrong!")
			return c.Redirect(http.StatusFound, "/update/"+url.PathEscape(id))
		}
		if upEnv.IsSuccess {
			post = post.WithPicture(stored)
		}
	}

	env, err = h.API.UpdatePost(ctx, post)
	if err != nil || !env.IsSuccess {
		if err != nil {
			c.Logger().Errorf("update post %s: %v", id, err)
		}
		setFlash(c, flashError, "Something went wrong!")
		return c.Redirect(http.StatusFound, "/update/"+url.PathEscape(id))
	}

	return c.Redirect(http.StatusFound, "/details/"+url.PathEscape(id))
}

func categoryParam(c echo.Context) string {
	if category := c.QueryParam("category"); category != "" {
		return category
	}
	return "All"
}

// inlineDataURL reads the uploaded file whole and encodes it as a data URL
// for the draft's picture field.
func inlineDataURL(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func mdToHTML(md string) []byte {
	// create markdown parser with extensions
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(md))

	// create HTML renderer with extensions
	htmlFlags := html.CommonFlags | html.HrefTargetBlank
	opts := html.RendererOptions{Flags: htmlFlags}
	renderer := html.NewRenderer(opts)

	return markdown.Render(doc, renderer)
}

func safeMd(content string) template.HTML {
	maybeUnsafeHTML := mdToHTML(content)
	return template.HTML(bluemonday.UGCPolicy().SanitizeBytes(maybeUnsafeHTML))
}
