package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fappie/backend/internal/clipboard"
	"github.com/fappie/backend/internal/model/conversation"
	"github.com/fappie/backend/internal/model/mode"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one e-mail or invitation from a transcript file",
	Long: `Generate sends a transcript and optional notes in one request and prints the
result. Use "-" as the transcript path to read from stdin.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringP("transcript", "t", "", "transcript file (- for stdin)")
	generateCmd.Flags().StringP("notes", "n", "", "file with extra notes")
	generateCmd.Flags().Bool("copy", false, "copy the result to the system clipboard")
	_ = generateCmd.MarkFlagRequired("transcript")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	transcriptPath, _ := cmd.Flags().GetString("transcript")
	notesPath, _ := cmd.Flags().GetString("notes")
	copyResult, _ := cmd.Flags().GetBool("copy")

	transcript, err := readInput(transcriptPath)
	if err != nil {
		return err
	}
	var notes string
	if notesPath != "" {
		if notes, err = readInput(notesPath); err != nil {
			return err
		}
	}

	c, err := connect(ctx, bufio.NewReader(os.Stdin))
	if err != nil {
		return err
	}

	reply, err := c.Generate(ctx, conversation.GenerateRequest{
		Mode:       mode.Parse(viper.GetString("mode")),
		Transcript: transcript,
		Notes:      notes,
	})
	if err != nil {
		return err
	}

	r := newRenderer(viper.GetBool("plain"))
	out := cmd.OutOrStdout()
	source := reply.Text
	if reply.Structured {
		source = reply.Body
		if reply.HasOutput() {
			fmt.Fprint(out, r.Output(reply.Output()))
		}
		if reply.Chat != "" {
			fmt.Fprint(out, r.Assistant(reply.Chat))
		}
	} else {
		fmt.Fprint(out, r.Body(reply.Text))
	}

	if copyResult {
		fmt.Fprintln(out, r.CopyResult(clipboard.Copy(clipboard.System(), source)))
	}
	return nil
}

func readInput(path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
