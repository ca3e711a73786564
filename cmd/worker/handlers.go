package main

import (
	"github.com/hibiken/asynq"

	bookJob "library-catalog/internal/domains/book/job"
	"library-catalog/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	sweepOrphanBooks *bookJob.SweepOrphanBooksHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		sweepOrphanBooks: bookJob.NewSweepOrphanBooksHandler(c.BookRepo),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Maintenance tasks
	mux.HandleFunc(bookJob.TypeSweepOrphanBooks, h.sweepOrphanBooks.ProcessTask)
}
