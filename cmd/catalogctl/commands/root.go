package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"library-catalog/pkg/container"
	"library-catalog/pkg/logger"
)

var (
	// Global flags
	envFile string
	verbose bool
)

// newContainer được override trong tests
var newContainer = container.NewContainer

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Maintenance commands for the library catalog",
	Long: `catalogctl prepares and maintains the catalog store.

The store is chosen by STORE_DRIVER (postgres, mongo, memory), exactly as for the API.

Examples:
  catalogctl migrate              # create tables / indexes
  catalogctl seed                 # load demo authors and books
  catalogctl sweep --now          # delete orphan books right away`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil && verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "no env file %s, using system environment\n", envFile)
		}

		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "development"
		}
		logger.Init(env)
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Env file to load before reading configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}
