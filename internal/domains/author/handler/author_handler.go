package handler

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"library-catalog/internal/domains/author/model"
	"library-catalog/internal/domains/author/service"
	bookHandler "library-catalog/internal/domains/book/handler"
	bookModel "library-catalog/internal/domains/book/model"
	"library-catalog/internal/shared/apperror"
	"library-catalog/internal/shared/response"
	"library-catalog/internal/shared/utils"
	"library-catalog/internal/shared/validation"
)

const listURL = "/catalog/authors"

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the author pages. Literal "create" goes before ":id".
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/author/create", response.Handle(h.CreateGet))
	rg.POST("/author/create", response.Handle(h.CreatePost))
	rg.GET("/author/:id/book/create", response.Handle(h.BookCreateGet))
	rg.GET("/author/:id/delete", response.Handle(h.DeleteGet))
	rg.POST("/author/:id/delete", response.Handle(h.DeletePost))
	rg.POST("/author/:id/book/:bookid/delete", response.Handle(h.DeleteBookPost))
	rg.GET("/author/:id/update", response.Handle(h.UpdateGet))
	rg.POST("/author/:id/update", response.Handle(h.UpdatePost))
	rg.GET("/author/:id", response.Handle(h.Detail))
	rg.GET("/authors", response.Handle(h.List))
}

// FormView is what the author form shows in its inputs
type FormView struct {
	FirstName   string
	FamilyName  string
	DateOfBirth string
	DateOfDeath string
}

func viewFromAuthor(a *model.Author) FormView {
	return FormView{
		FirstName:   a.FirstName,
		FamilyName:  a.FamilyName,
		DateOfBirth: utils.ISODate(a.DateOfBirth),
		DateOfDeath: utils.ISODate(a.DateOfDeath),
	}
}

func viewFromForm(f model.AuthorForm) FormView {
	return FormView{
		FirstName:   f.FirstName,
		FamilyName:  f.FamilyName,
		DateOfBirth: f.DateOfBirthInput,
		DateOfDeath: f.DateOfDeathInput,
	}
}

// List - GET /catalog/authors?search=&sort=
func (h *Handler) List(c *gin.Context) error {
	sort := model.ParseSort(c.Query("sort"))
	search := c.Query("search")

	authors, err := h.service.List(c.Request.Context(), model.AuthorFilter{Search: search, Sort: sort})
	if err != nil {
		return err
	}

	return response.Page(c, "author_list", gin.H{
		"title":          "Author List",
		"author_list":    authors,
		"search":         search,
		"selectedOption": sort,
	})
}

// loadWithBooks fetches the author and their books concurrently
func (h *Handler) loadWithBooks(c *gin.Context) (*model.Author, []bookModel.Book, error) {
	var (
		author *model.Author
		books  []bookModel.Book
	)

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		author, err = h.service.GetByID(ctx, c.Param("id"))
		return err
	})
	g.Go(func() (err error) {
		books, err = h.service.ListBooks(ctx, c.Param("id"))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return author, books, nil
}

// Detail - GET /catalog/author/:id
func (h *Handler) Detail(c *gin.Context) error {
	author, books, err := h.loadWithBooks(c)
	if err != nil {
		return err
	}

	return response.Page(c, "author_detail", gin.H{
		"title":        author.Name(),
		"author":       author,
		"author_books": books,
	})
}

// CreateGet - GET /catalog/author/create
func (h *Handler) CreateGet(c *gin.Context) error {
	return response.Form(c, "author_form", gin.H{
		"title":       "Create Author",
		"form_action": "/catalog/author/create",
	}, nil)
}

func parseForm(c *gin.Context) (model.AuthorForm, *validation.Result, error) {
	values, err := validation.FromRequest(c.Request)
	if err != nil {
		return model.AuthorForm{}, nil, apperror.BadRequest("Malformed form submission", err)
	}

	res := model.FormSchema.Run(values)
	return model.NewAuthorForm(res), res, nil
}

// CreatePost - POST /catalog/author/create
func (h *Handler) CreatePost(c *gin.Context) error {
	form, res, err := parseForm(c)
	if err != nil {
		return err
	}

	if !res.Valid() {
		return response.Form(c, "author_form", gin.H{
			"title":       "Create Author",
			"form_action": "/catalog/author/create",
			"form":        viewFromForm(form),
		}, res)
	}

	author, err := h.service.Create(c.Request.Context(), form)
	if err != nil {
		return err
	}
	return response.Redirect(c, author.URL())
}

// UpdateGet - GET /catalog/author/:id/update
func (h *Handler) UpdateGet(c *gin.Context) error {
	author, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return response.Form(c, "author_form", gin.H{
		"title":       "Update Author",
		"form_action": author.URL() + "/update",
		"form":        viewFromAuthor(author),
		"author":      author,
	}, nil)
}

// UpdatePost - POST /catalog/author/:id/update
func (h *Handler) UpdatePost(c *gin.Context) error {
	id := c.Param("id")
	form, res, err := parseForm(c)
	if err != nil {
		return err
	}

	if !res.Valid() {
		return response.Form(c, "author_form", gin.H{
			"title":       "Update Author",
			"form_action": "/catalog/author/" + id + "/update",
			"form":        viewFromForm(form),
		}, res)
	}

	author, err := h.service.Update(c.Request.Context(), id, form)
	if err != nil {
		return err
	}
	return response.Redirect(c, author.URL())
}

// DeleteGet - GET /catalog/author/:id/delete
func (h *Handler) DeleteGet(c *gin.Context) error {
	author, books, err := h.loadWithBooks(c)
	if apperror.IsNotFound(err) {
		return response.Redirect(c, listURL)
	}
	if err != nil {
		return err
	}

	return response.Page(c, "author_delete", gin.H{
		"title":        "Delete Author",
		"author":       author,
		"author_books": books,
	})
}

// DeletePost - POST /catalog/author/:id/delete
func (h *Handler) DeletePost(c *gin.Context) error {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		return err
	}
	return response.Redirect(c, listURL)
}

// DeleteBookPost - POST /catalog/author/:id/book/:bookid/delete
func (h *Handler) DeleteBookPost(c *gin.Context) error {
	if err := h.service.DeleteBook(c.Request.Context(), c.Param("bookid")); err != nil {
		return err
	}
	return response.Redirect(c, "/catalog/author/"+c.Param("id")+"/delete")
}

// BookCreateGet - GET /catalog/author/:id/book/create, book form with this author chosen
func (h *Handler) BookCreateGet(c *gin.Context) error {
	var (
		author  *model.Author
		authors []model.Author
	)

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		author, err = h.service.GetByID(ctx, c.Param("id"))
		return err
	})
	g.Go(func() (err error) {
		authors, err = h.service.List(ctx, model.AuthorFilter{Sort: model.SortNameAsc})
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	return response.Form(c, "book_form", gin.H{
		"title":       "Create Book",
		"authors":     authors,
		"form_action": "/catalog/book/create",
		"form":        bookHandler.FormView{AuthorID: author.ID.String()},
	}, nil)
}
