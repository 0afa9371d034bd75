// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// files_cmd.go - Document management commands for the docvault CLI.
//
// Command: files
// Subcommands:
//   list               List uploaded documents
//   upload <path>      Upload a document (requires --caption)
//   process <id>       Start processing an uploaded document
//
// Examples:
//   docvault files list
//   docvault files upload report.pdf --caption "Q3 report"
//   docvault files process 12

package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jeranaias/docvault-tui/internal/files"
	"github.com/jeranaias/docvault-tui/internal/model"
	"github.com/jeranaias/docvault-tui/internal/util"
)

// HandleFiles dispatches the files subcommands.
func HandleFiles(args Args) error {
	env, err := NewEnv(args)
	if err != nil {
		return err
	}
	defer env.Close()

	switch args.Subcommand {
	case "list", "ls", "":
		return handleFilesList(env, args)
	case "upload", "up":
		return handleFilesUpload(env, args)
	case "process", "rag":
		return handleFilesProcess(env, args)
	default:
		return usageErrorf("unknown files subcommand %q (expected list, upload, or process)", args.Subcommand)
	}
}

func handleFilesList(env *Env, args Args) error {
	ctx, cancel := env.RequestContext()
	defer cancel()

	list, err := env.Tracker.Refresh(ctx)
	if err != nil {
		return err
	}

	if args.JSON {
		return outputJSON(list)
	}

	printFileList(list)
	return nil
}

func handleFilesUpload(env *Env, args Args) error {
	if args.File == "" {
		return usageErrorf("usage: docvault files upload <path> --caption TEXT")
	}
	if strings.TrimSpace(args.Caption) == "" {
		return usageErrorf("a caption is required: --caption TEXT")
	}

	// Local checks run before any bytes are sent
	if err := files.ValidateUpload(args.File, args.Caption); err != nil {
		return err
	}

	ctx, cancel := env.LongRequestContext()
	defer cancel()

	uploaded, err := env.Tracker.Upload(ctx, args.File, args.Caption)
	if err != nil {
		return err
	}

	size := "unknown size"
	if info, serr := os.Stat(args.File); serr == nil {
		size = formatBytes(info.Size())
	}
	fmt.Printf("%s Uploaded %s (id %d, %s)\n",
		SuccessStyle.Render("[OK]"), uploaded.FileName, uploaded.ID, size)
	fmt.Println(MutedStyle.Render(
		fmt.Sprintf("Run 'docvault files process %d' to make it answerable.", uploaded.ID)))
	return nil
}

func handleFilesProcess(env *Env, args Args) error {
	if args.Target == "" {
		return usageErrorf("usage: docvault files process <id>")
	}
	fileID, err := strconv.Atoi(args.Target)
	if err != nil {
		return usageErrorf("invalid file id %q", args.Target)
	}

	// Populate the tracker so the duplicate-processing guards can work
	ctx, cancel := env.RequestContext()
	_, err = env.Tracker.Refresh(ctx)
	cancel()
	if err != nil {
		return err
	}

	longCtx, cancel := env.LongRequestContext()
	defer cancel()

	if err := env.Tracker.TriggerProcessing(longCtx, fileID); err != nil {
		return err
	}

	fmt.Printf("%s File %d processed\n", SuccessStyle.Render("[OK]"), fileID)
	return nil
}

// printFileList renders the uploaded-file listing as a plain table.
func printFileList(list []model.UploadedFile) {
	if len(list) == 0 {
		fmt.Println(MutedStyle.Render("No uploaded documents."))
		return
	}

	fmt.Printf("%-6s %-32s %-28s %-10s %s\n", "ID", "FILE", "CAPTION", "STATUS", "UPLOADED BY")
	for _, f := range list {
		fmt.Printf("%-6d %-32s %-28s %-10s %s\n",
			f.ID, truncateCell(f.FileName, 32), truncateCell(f.Caption, 28),
			f.StatusLabel(), f.UploadedBy)
	}
}

// truncateCell shortens a table cell value to the column width
// without splitting multi-byte runes.
func truncateCell(s string, width int) string {
	return util.TruncateWidth(s, width)
}
