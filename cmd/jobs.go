package cmd

import (
	"fmt"
	"log"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List the jobs candidates can be screened for",
	Run: func(cmd *cobra.Command, _ []string) {
		catalog, err := loadCatalog(viper.GetString("content-file"))
		if err != nil {
			log.Fatalf("loading content: %s", err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tCOMPANY\tQUESTIONS")
		for _, job := range catalog.Jobs() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", job.ID, job.Title, job.CompanyID, len(job.Questions))
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
}
