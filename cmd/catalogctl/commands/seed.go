package commands

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	authorModel "library-catalog/internal/domains/author/model"
	authorService "library-catalog/internal/domains/author/service"
	bookModel "library-catalog/internal/domains/book/model"
	bookService "library-catalog/internal/domains/book/service"
	"library-catalog/internal/shared/validation"
)

var seedForce bool

type seedAuthor struct {
	firstName, familyName string
	born, died            string
	books                 []seedBook
}

type seedBook struct {
	title, summary, isbn, published string
}

// demoCatalog đi qua cùng validation chain như form submit
var demoCatalog = []seedAuthor{
	{
		firstName: "Patrick", familyName: "Rothfuss", born: "1973-06-06",
		books: []seedBook{
			{"The Name of the Wind (The Kingkiller Chronicle, #1)", "Kvothe tells the story of his early years as an orphan, a student and a musician.", "9781473211896", "2007-03-27"},
			{"The Wise Man's Fear (The Kingkiller Chronicle, #2)", "Kvothe continues the tale of his search for the Chandrian.", "9788401352836", "2011-03-01"},
			{"The Slow Regard of Silent Things (Kingkiller Chronicle)", "Auri explores the Underthing beneath the University.", "9780756411336", "2014-10-28"},
		},
	},
	{
		firstName: "Ben", familyName: "Bova", born: "1932-11-08", died: "2020-11-29",
		books: []seedBook{
			{"Apes and Angels", "Humankind races to reach a dying alien civilization before a wave of deadly radiation.", "9780765379528", "2016-01-05"},
			{"Death Wave", "Jordan Kell returns to Earth with news of a wave of radiation from the galactic core.", "9780765379504", ""},
		},
	},
	{
		firstName: "Isaac", familyName: "Asimov", born: "1920-01-02", died: "1992-04-06",
		books: []seedBook{
			{"Foundation", "Hari Seldon founds a colony of scientists to shorten the dark age after the Empire falls.", "9780553293357", "1951-06-01"},
		},
	},
	{firstName: "Bob", familyName: "Billings"},
	{firstName: "Jim", familyName: "Jones", born: "1971-12-16"},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo authors and books",
	Long: `Load demo authors and books through the catalog services.

Seeding is skipped when the store already holds authors, unless --force is given.
Books whose ISBN already exists are never duplicated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newContainer()
		if err != nil {
			return err
		}
		defer c.Cleanup()

		authors, books, err := seedCatalog(cmd.Context(), c.AuthorService, c.BookService, seedForce, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ seeded %d author(s), %d book(s)\n", authors, books)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().BoolVar(&seedForce, "force", false, "Seed even when the store is not empty")
}

// seedCatalog trả về số author và book mới được tạo
func seedCatalog(ctx context.Context, authors authorService.ServiceInterface, books bookService.ServiceInterface, force bool, out io.Writer) (int, int, error) {
	existing, err := authors.Count(ctx)
	if err != nil {
		return 0, 0, err
	}
	if existing > 0 && !force {
		fmt.Fprintf(out, "store already has %d author(s), skipping (use --force)\n", existing)
		return 0, 0, nil
	}

	createdAuthors, createdBooks := 0, 0
	for _, sa := range demoCatalog {
		res := authorModel.FormSchema.Run(url.Values{
			"first_name":    {sa.firstName},
			"family_name":   {sa.familyName},
			"date_of_birth": {sa.born},
			"date_of_death": {sa.died},
		})
		if !res.Valid() {
			return createdAuthors, createdBooks, fmt.Errorf("seed author %s %s: %s", sa.firstName, sa.familyName, joinErrors(res.Errors))
		}

		author, err := authors.Create(ctx, authorModel.NewAuthorForm(res))
		if err != nil {
			return createdAuthors, createdBooks, err
		}
		createdAuthors++
		fmt.Fprintf(out, "  + author %s\n", author.Name())

		for _, sb := range sa.books {
			res := bookModel.FormSchema.Run(url.Values{
				"title":            {sb.title},
				"author":           {author.ID.String()},
				"summary":          {sb.summary},
				"isbn":             {sb.isbn},
				"publication_date": {sb.published},
			})
			form := bookModel.NewBookForm(res)
			if err := books.CheckAuthor(ctx, form, res); err != nil {
				return createdAuthors, createdBooks, err
			}
			if !res.Valid() {
				return createdAuthors, createdBooks, fmt.Errorf("seed book %q: %s", sb.title, joinErrors(res.Errors))
			}

			_, existed, err := books.Create(ctx, form)
			if err != nil {
				return createdAuthors, createdBooks, err
			}
			if existed {
				fmt.Fprintf(out, "  = book %s (isbn %s exists)\n", sb.title, sb.isbn)
				continue
			}
			createdBooks++
			fmt.Fprintf(out, "  + book %s\n", sb.title)
		}
	}

	return createdAuthors, createdBooks, nil
}

func joinErrors(errs []validation.FieldError) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}
