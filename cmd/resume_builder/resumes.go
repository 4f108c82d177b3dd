package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/resumes"
)

var resumesUser string

var resumesCmd = &cobra.Command{
	Use:   "resumes",
	Short: "Inspect and manage stored resumes of one account",
}

var resumesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the resumes of an account",
	Args:  cobra.NoArgs,
	RunE:  runResumesList,
}

var resumesShowJSON bool

var resumesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one resume",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumesShow,
}

var resumesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a resume",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumesDelete,
}

var resumesDuplicateCmd = &cobra.Command{
	Use:   "duplicate <name> <new-name>",
	Short: "Copy a resume under a new name",
	Args:  cobra.ExactArgs(2),
	RunE:  runResumesDuplicate,
}

func init() {
	resumesCmd.PersistentFlags().StringVarP(&resumesUser, "user", "u", "", "Account that owns the resumes (required)")
	if err := resumesCmd.MarkPersistentFlagRequired("user"); err != nil {
		panic(fmt.Sprintf("failed to mark user flag as required: %v", err))
	}
	resumesShowCmd.Flags().BoolVar(&resumesShowJSON, "json", false, "Print the flat JSON record")

	resumesCmd.AddCommand(resumesListCmd, resumesShowCmd, resumesDeleteCmd, resumesDuplicateCmd)
	rootCmd.AddCommand(resumesCmd)
}

// withResumes runs fn against a resume service over the configured store
func withResumes(cmd *cobra.Command, fn func(*resumes.Service) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, closeFn, err := openMigrated(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(resumes.NewService(st))
}

func runResumesList(cmd *cobra.Command, _ []string) error {
	return withResumes(cmd, func(svc *resumes.Service) error {
		records, err := svc.LoadAll(cmd.Context(), resumesUser)
		if err != nil {
			return err
		}
		printRecordList(cmd.OutOrStdout(), resumesUser, records)
		return nil
	})
}

func runResumesShow(cmd *cobra.Command, args []string) error {
	return withResumes(cmd, func(svc *resumes.Service) error {
		rec, err := svc.Get(cmd.Context(), resumesUser, args[0])
		if err != nil {
			return err
		}
		if resumesShowJSON {
			out, err := json.MarshalIndent(rec, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal record: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}
		printRecord(cmd.OutOrStdout(), rec)
		return nil
	})
}

func runResumesDelete(cmd *cobra.Command, args []string) error {
	return withResumes(cmd, func(svc *resumes.Service) error {
		if err := svc.Delete(cmd.Context(), resumesUser, args[0]); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Deleted "+args[0]))
		return nil
	})
}

func runResumesDuplicate(cmd *cobra.Command, args []string) error {
	return withResumes(cmd, func(svc *resumes.Service) error {
		copied, err := svc.Duplicate(cmd.Context(), resumesUser, args[0], args[1])
		if err != nil {
			return err
		}
		if !copied {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render(fmt.Sprintf("No resume named %s; nothing copied", args[0])))
			return nil
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Copied %s to %s", args[0], args[1])))
		return nil
	})
}
