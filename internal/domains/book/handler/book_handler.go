package handler

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	authorModel "library-catalog/internal/domains/author/model"
	"library-catalog/internal/domains/book/model"
	"library-catalog/internal/domains/book/service"
	"library-catalog/internal/shared/apperror"
	"library-catalog/internal/shared/response"
	"library-catalog/internal/shared/utils"
	"library-catalog/internal/shared/validation"
)

const (
	IndexTitle = "The Sanctuary of Forgotten Tales"
	listURL    = "/catalog/books"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the book pages. Literal "create" goes before ":id".
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", response.Handle(h.Index))

	rg.GET("/book/create", response.Handle(h.CreateGet))
	rg.POST("/book/create", response.Handle(h.CreatePost))
	rg.GET("/book/:id/delete", response.Handle(h.DeleteGet))
	rg.POST("/book/:id/delete", response.Handle(h.DeletePost))
	rg.GET("/book/:id/update", response.Handle(h.UpdateGet))
	rg.POST("/book/:id/update", response.Handle(h.UpdatePost))
	rg.GET("/book/:id", response.Handle(h.Detail))
	rg.GET("/books", response.Handle(h.List))
}

// FormView is what the book form shows in its inputs
type FormView struct {
	Title           string
	AuthorID        string
	Summary         string
	ISBN            string
	PublicationDate string
}

func viewFromBook(b *model.Book) FormView {
	return FormView{
		Title:           b.Title,
		AuthorID:        b.AuthorID.String(),
		Summary:         b.Summary,
		ISBN:            b.ISBN,
		PublicationDate: utils.ISODate(b.PublicationDate),
	}
}

func viewFromForm(f model.BookForm) FormView {
	return FormView{
		Title:           f.Title,
		AuthorID:        f.AuthorInput,
		Summary:         f.Summary,
		ISBN:            f.ISBN,
		PublicationDate: f.PublicationDateInput,
	}
}

// Index - GET /catalog/
func (h *Handler) Index(c *gin.Context) error {
	var bookCount, authorCount int64

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		bookCount, err = h.service.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		authorCount, err = h.service.CountAuthors(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	return response.Page(c, "index", gin.H{
		"title":        IndexTitle,
		"book_count":   bookCount,
		"author_count": authorCount,
	})
}

// List - GET /catalog/books?search=&sort=
func (h *Handler) List(c *gin.Context) error {
	sort := model.ParseSort(c.Query("sort"))
	search := c.Query("search")

	books, err := h.service.List(c.Request.Context(), model.BookFilter{Search: search, Sort: sort})
	if err != nil {
		return err
	}

	return response.Page(c, "book_list", gin.H{
		"title":          "Book List",
		"book_list":      books,
		"search":         search,
		"selectedOption": sort,
	})
}

// Detail - GET /catalog/book/:id
func (h *Handler) Detail(c *gin.Context) error {
	book, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return response.Page(c, "book_detail", gin.H{
		"title": book.Title,
		"book":  book,
	})
}

func (h *Handler) renderForm(c *gin.Context, title, action string, view *FormView, res *validation.Result) error {
	authors, err := h.service.ListAuthors(c.Request.Context())
	if err != nil {
		return err
	}
	return h.form(c, title, action, authors, view, res)
}

func (h *Handler) form(c *gin.Context, title, action string, authors []authorModel.Author, view *FormView, res *validation.Result) error {
	data := gin.H{
		"title":       title,
		"authors":     authors,
		"form_action": action,
	}
	if view != nil {
		data["form"] = view
	}
	return response.Form(c, "book_form", data, res)
}

// CreateGet - GET /catalog/book/create
func (h *Handler) CreateGet(c *gin.Context) error {
	return h.renderForm(c, "Create Book", "/catalog/book/create", nil, nil)
}

// parseForm runs the validation chain plus the author existence check
func (h *Handler) parseForm(c *gin.Context) (model.BookForm, *validation.Result, error) {
	values, err := validation.FromRequest(c.Request)
	if err != nil {
		return model.BookForm{}, nil, apperror.BadRequest("Malformed form submission", err)
	}

	res := model.FormSchema.Run(values)
	form := model.NewBookForm(res)
	if err := h.service.CheckAuthor(c.Request.Context(), form, res); err != nil {
		return form, nil, err
	}
	return form, res, nil
}

// CreatePost - POST /catalog/book/create
func (h *Handler) CreatePost(c *gin.Context) error {
	form, res, err := h.parseForm(c)
	if err != nil {
		return err
	}

	if !res.Valid() {
		view := viewFromForm(form)
		return h.renderForm(c, "Create Book", "/catalog/book/create", &view, res)
	}

	// ISBN đã có thì chuyển tới sách đó, không tạo mới
	book, _, err := h.service.Create(c.Request.Context(), form)
	if err != nil {
		return err
	}
	return response.Redirect(c, book.URL())
}

// UpdateGet - GET /catalog/book/:id/update
func (h *Handler) UpdateGet(c *gin.Context) error {
	var (
		book    *model.Book
		authors []authorModel.Author
	)

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		book, err = h.service.GetByID(ctx, c.Param("id"))
		return err
	})
	g.Go(func() (err error) {
		authors, err = h.service.ListAuthors(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	view := viewFromBook(book)
	data := gin.H{
		"title":       "Update Book",
		"authors":     authors,
		"form_action": book.URL() + "/update",
		"form":        &view,
		"book":        book,
	}
	return response.Form(c, "book_form", data, nil)
}

// UpdatePost - POST /catalog/book/:id/update
func (h *Handler) UpdatePost(c *gin.Context) error {
	id := c.Param("id")
	form, res, err := h.parseForm(c)
	if err != nil {
		return err
	}

	if !res.Valid() {
		view := viewFromForm(form)
		return h.renderForm(c, "Update Book", "/catalog/book/"+id+"/update", &view, res)
	}

	book, err := h.service.Update(c.Request.Context(), id, form)
	if err != nil {
		return err
	}
	return response.Redirect(c, book.URL())
}

// DeleteGet - GET /catalog/book/:id/delete
func (h *Handler) DeleteGet(c *gin.Context) error {
	book, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if apperror.IsNotFound(err) {
		return response.Redirect(c, listURL)
	}
	if err != nil {
		return err
	}

	return response.Page(c, "book_delete", gin.H{
		"title": "Delete Book",
		"book":  book,
	})
}

// DeletePost - POST /catalog/book/:id/delete
func (h *Handler) DeletePost(c *gin.Context) error {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		return err
	}
	return response.Redirect(c, listURL)
}
