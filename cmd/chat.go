package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/hh-screener/internal/interview"
	"github.com/spigell/hh-screener/internal/logger"
	"github.com/spigell/hh-screener/internal/screening"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Play the candidate in a screening conversation from the terminal",
	Run: func(cmd *cobra.Command, _ []string) {
		chat(cmd)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().String("job", "", "job id to screen for (default is to choose from the catalog)")
	chatCmd.Flags().String("candidate", "cli-candidate", "candidate id")
	chatCmd.Flags().String("name", "", "candidate name")
	chatCmd.Flags().String("platform", string(screening.PlatformLinkedIn), "platform the candidate writes from")
}

func chat(cmd *cobra.Command) {
	ctx := context.Background()

	// Logs go to stderr so they do not interleave with the conversation.
	logger, err := logger.New(logger.Options{
		JSON:   viper.GetBool("json"),
		Debug:  viper.GetBool("debug"),
		Output: "stderr",
	})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	screener, err := build(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the screener", zap.Error(err))
	}
	defer screener.Close()

	jobID := cmd.Flag("job").Value.String()
	if jobID == "" {
		jobID, err = chooseJob(screener.catalog.Jobs())
		if err != nil {
			logger.Fatal("choosing a job", zap.Error(err))
		}
	}

	out := cmd.OutOrStdout()

	reply, err := screener.service.Start(ctx, interview.StartRequest{
		CandidateID:   cmd.Flag("candidate").Value.String(),
		CandidateName: cmd.Flag("name").Value.String(),
		Platform:      screening.Platform(cmd.Flag("platform").Value.String()),
		JobID:         jobID,
	})
	if err != nil {
		logger.Fatal("starting a conversation", zap.Error(err))
	}
	printReply(out, reply)

	input := promptui.Prompt{Label: "You"}
	for !reply.Ended {
		text, err := input.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				logger.Info("exiting", zap.String("reason", "conversation abandoned"))
				return
			}
			logger.Fatal("reading input", zap.Error(err))
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		reply, err = screener.service.Reply(ctx, reply.SessionID, text)
		if err != nil {
			logger.Fatal("processing a message", zap.Error(err))
		}
		printReply(out, reply)
	}

	if reply.Evaluation != nil {
		// do not bother error since the evaluation is a plain struct
		pretty, _ := json.MarshalIndent(reply.Evaluation, "", "  ")
		fmt.Fprintf(out, "\nevaluation:\n%s\n", pretty)
	}
}

func chooseJob(jobs []screening.JobProfile) (string, error) {
	if len(jobs) == 0 {
		return "", errors.New("the catalog has no jobs")
	}

	items := make([]string, 0, len(jobs))
	for _, job := range jobs {
		items = append(items, fmt.Sprintf("%s %s (%d questions)", job.ID, job.Title, len(job.Questions)))
	}

	jobPrompt := promptui.Select{
		Label: "Choose a job and press ENTER",
		Items: items,
	}

	i, _, err := jobPrompt.Run()
	if err != nil {
		return "", err
	}
	return jobs[i].ID, nil
}

func printReply(out io.Writer, reply *interview.Reply) {
	fmt.Fprintf(out, "Interviewer: %s\n", reply.Text)
	if reply.NeedsHumanIntervention {
		fmt.Fprintln(out, "(a recruiter will take over this conversation)")
	}
}
