package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fappie/backend/internal/clipboard"
	model "github.com/fappie/backend/internal/model/conversation"
	"github.com/fappie/backend/internal/model/mode"
	"github.com/fappie/backend/internal/service/conversation"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Refine an e-mail or invitation in a conversation",
	Long: `Chat starts an interactive conversation. Paste the transcript and end the
message with an empty line. Follow up with corrections the same way.

Commands:
  /new           start a new conversation
  /mode MODE     switch to email or calendar (starts a new conversation)
  /copy          copy the latest result to the clipboard
  /quit          leave`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	in := bufio.NewReader(os.Stdin)
	c, err := connect(ctx, in)
	if err != nil {
		return err
	}

	s := newSession(c, mode.Parse(viper.GetString("mode")), in, cmd.OutOrStdout(), newRenderer(viper.GetBool("plain")), clipboard.System())
	defer s.Close()
	return s.Run(ctx)
}

type session struct {
	machine *conversation.Machine
	in      *bufio.Reader
	out     io.Writer
	r       *renderer
	clip    clipboard.Writer
}

func newSession(gen conversation.Generator, m mode.Mode, in *bufio.Reader, out io.Writer, r *renderer, clip clipboard.Writer) *session {
	return &session{
		machine: conversation.New(gen, m),
		in:      in,
		out:     out,
		r:       r,
		clip:    clip,
	}
}

func (s *session) Close() {
	s.machine.Close()
}

// Run reads messages until /quit, EOF or ctx is done.
func (s *session) Run(ctx context.Context) error {
	s.prompt()
	for {
		block, err := readBlock(s.in)
		if block != "" {
			if quit := s.handle(ctx, block); quit {
				return nil
			}
			s.prompt()
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (s *session) prompt() {
	state := s.machine.Snapshot()
	fmt.Fprint(s.out, s.r.Info(fmt.Sprintf("[%s] bericht, afsluiten met een lege regel", state.Mode)))
}

func (s *session) handle(ctx context.Context, block string) bool {
	if strings.HasPrefix(block, "/") {
		return s.command(block)
	}

	done, err := s.machine.Send(ctx, block)
	if err != nil {
		fmt.Fprint(s.out, s.r.Error(err.Error()))
		return false
	}

	fmt.Fprint(s.out, s.r.Info("Genereren..."))
	var state conversation.State
	select {
	case state = <-done:
	case <-ctx.Done():
		return true
	}
	s.show(state)
	return false
}

func (s *session) show(state conversation.State) {
	if len(state.Display) > 0 {
		last := state.Display[len(state.Display)-1]
		if last.Role == model.RoleAssistant {
			if last.Content == conversation.ErrorTurnText {
				fmt.Fprint(s.out, s.r.Error(last.Content))
				return
			}
			if state.Structured {
				fmt.Fprint(s.out, s.r.Assistant(last.Content))
			}
		}
	}

	if state.Output != nil {
		fmt.Fprint(s.out, s.r.Output(*state.Output))
	} else if !state.Structured {
		fmt.Fprint(s.out, s.r.Body(conversation.CopySource(state)))
	}
}

func (s *session) command(line string) bool {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	switch name {
	case "/quit", "/exit":
		return true
	case "/new":
		s.machine.Reset()
		fmt.Fprint(s.out, s.r.Info("Nieuw gesprek gestart"))
	case "/mode":
		m := mode.Parse(arg)
		s.machine.SwitchMode(m)
		fmt.Fprint(s.out, s.r.Info(fmt.Sprintf("Modus %s, nieuw gesprek gestart", m)))
	case "/copy":
		source := s.machine.CopySource()
		if source == "" {
			fmt.Fprint(s.out, s.r.Error("Niets om te kopiëren"))
			return false
		}
		fmt.Fprintln(s.out, s.r.CopyResult(clipboard.Copy(s.clip, source)))
	default:
		fmt.Fprint(s.out, s.r.Error("onbekend commando: "+name))
	}
	return false
}

// readBlock reads lines up to an empty line. A first line starting with "/" is
// a command and ends the block on its own.
func readBlock(in *bufio.Reader) (string, error) {
	var lines []string
	for {
		line, err := in.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")

		if len(lines) == 0 && strings.HasPrefix(line, "/") {
			return line, nil
		}
		if line == "" && err == nil {
			if len(lines) == 0 {
				continue
			}
			return strings.Join(lines, "\n"), nil
		}
		if line != "" {
			lines = append(lines, line)
		}
		if err != nil {
			return strings.Join(lines, "\n"), err
		}
	}
}
