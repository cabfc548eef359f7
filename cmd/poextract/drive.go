package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/po-extractor/pkg/storage"
)

var driveCmd = &cobra.Command{
	Use:   "drive",
	Short: "Browse the drive folders shared with the service account",
}

var driveFoldersCmd = &cobra.Command{
	Use:   "folders [parent-id]",
	Short: "List shared drives and folders, or the sub-folders of parent",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := deps.Drive(cmd.Context())
		if err != nil {
			return err
		}
		var parent string
		if len(args) == 1 {
			parent = args[0]
		}

		folders, err := client.Folders(cmd.Context(), parent)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(folders) == 0 {
			fmt.Fprintln(out, "No folders found.")
			if email, err := storage.ServiceAccountEmail(deps.Config.Drive.ServiceAccountFile); err == nil {
				fmt.Fprintf(out, "Share a folder or add %s to a shared drive as a Viewer.\n", email)
			}
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tORIGIN")
		for _, f := range folders {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", f.ID, f.Name, f.Origin)
		}
		return tw.Flush()
	},
}

var driveFilesCmd = &cobra.Command{
	Use:   "files [folder-id]",
	Short: "List the PDFs in a folder (default DRIVE_FOLDER_ID)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folder := deps.Config.Drive.FolderID
		if len(args) == 1 {
			folder = args[0]
		}
		if folder == "" {
			return fmt.Errorf("no folder given and DRIVE_FOLDER_ID is not set")
		}

		client, err := deps.Drive(cmd.Context())
		if err != nil {
			return err
		}
		files, err := client.Files(cmd.Context(), folder)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tSIZE\tPROCESSED")
		for _, f := range files {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%t\n", f.ID, f.Name, f.Size, deps.Journal.IsProcessed(f.Name))
		}
		return tw.Flush()
	},
}

func init() {
	driveCmd.AddCommand(driveFoldersCmd, driveFilesCmd)
	rootCmd.AddCommand(driveCmd)
}
