// Package repl provides the interactive console and the debugger-side
// driver that hosts the orchestration engine.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	"github.com/charmbracelet/lipgloss"

	"aidbg/engine"
	"aidbg/model"
	"aidbg/session"
)

const (
	renderWidth      = 100
	maxInputHistory  = 50
	historyViewLimit = 20
)

var (
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	faintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	promptText  = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true).Render("ai> ")
)

// Console is a line-oriented front end: every non-command line is a question
// for the model, slash commands manage the session.
type Console struct {
	eng         *engine.Engine
	sess        *session.Session
	persistence *session.Persistence
	persist     bool
	out         io.Writer
	in          io.Reader
	inputs      []string
}

func NewConsole(sess *session.Session, persistence *session.Persistence, persist bool, in io.Reader, out io.Writer) *Console {
	return &Console{
		sess:        sess,
		persistence: persistence,
		persist:     persist,
		out:         out,
		in:          in,
	}
}

// SetEngine wires the engine after construction; the engine needs the
// console's Emit and Snapshot callbacks, so the two are built in two steps.
func (c *Console) SetEngine(eng *engine.Engine) {
	c.eng = eng
}

// Emit renders engine output to the terminal. Notices keep their bracket
// prefix; everything else is rendered as markdown.
func (c *Console) Emit(text string) {
	if strings.HasPrefix(text, "[aidbg]") {
		fmt.Fprintln(c.out, noticeStyle.Render(text))
		return
	}
	rendered := markdown.Render(text, renderWidth, 0)
	fmt.Fprintln(c.out, string(rendered))
}

// Snapshot builds the context bundle for the prompt assembler from the
// console's own state: recent inputs serve as the session history.
func (c *Console) Snapshot() *model.ContextSnapshot {
	return &model.ContextSnapshot{
		SessionHistory: append([]string(nil), c.inputs...),
	}
}

// Run reads lines until EOF or /quit. Every question runs to completion
// before the next line is read; the engine handles interrupts itself.
func (c *Console) Run(ctx context.Context) error {
	resumed, err := c.persistence.Start(c.sess, c.sess.ID())
	if err != nil {
		fmt.Fprintln(c.out, errorStyle.Render(fmt.Sprintf("session restore failed, starting fresh: %v", err)))
	} else if resumed {
		fmt.Fprintln(c.out, faintStyle.Render(fmt.Sprintf("Resumed session %s (%d messages)", c.sess.ID(), c.sess.History.Len())))
	}

	scanner := bufio.NewScanner(c.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(c.out, promptText)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := c.handleCommand(line); quit {
				break
			}
			continue
		}

		question := strings.TrimPrefix(line, "ai ")
		c.recordInput(question)
		c.eng.Ask(ctx, question)
		c.recordAnswer()
		c.autosave()
	}

	return scanner.Err()
}

func (c *Console) handleCommand(line string) (quit bool) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		c.autosave()
		return true

	case "/save":
		if err := c.persistence.Save(c.sess); err != nil {
			fmt.Fprintln(c.out, errorStyle.Render(fmt.Sprintf("save failed: %v", err)))
		} else {
			fmt.Fprintln(c.out, faintStyle.Render("Session saved: "+c.sess.ID()))
		}

	case "/sessions":
		infos, err := c.persistence.List()
		if err != nil {
			fmt.Fprintln(c.out, errorStyle.Render(fmt.Sprintf("list failed: %v", err)))
			return false
		}
		if len(infos) == 0 {
			fmt.Fprintln(c.out, faintStyle.Render("No saved sessions"))
			return false
		}
		for _, info := range infos {
			fmt.Fprintf(c.out, "%s  %s  (%d messages)\n",
				info.ID, info.SavedAt.Format("2006-01-02 15:04"), info.MessageCount)
		}

	case "/search":
		if len(fields) < 2 {
			fmt.Fprintln(c.out, faintStyle.Render("usage: /search <query>"))
			return false
		}
		matches, err := c.persistence.Search(strings.Join(fields[1:], " "))
		if err != nil {
			fmt.Fprintln(c.out, errorStyle.Render(fmt.Sprintf("search failed: %v", err)))
			return false
		}
		for _, info := range matches {
			fmt.Fprintf(c.out, "%s  (%d messages)\n", info.ID, info.MessageCount)
		}

	case "/export":
		if len(fields) < 2 {
			fmt.Fprintln(c.out, faintStyle.Render("usage: /export <path>"))
			return false
		}
		if err := c.persistence.ExportToJSON(c.sess, fields[1]); err != nil {
			fmt.Fprintln(c.out, errorStyle.Render(fmt.Sprintf("export failed: %v", err)))
		} else {
			fmt.Fprintln(c.out, faintStyle.Render("Session exported to "+fields[1]))
		}

	case "/history":
		entries := c.sess.History.Summary()
		if len(entries) > historyViewLimit {
			entries = entries[len(entries)-historyViewLimit:]
		}
		for _, entry := range entries {
			fmt.Fprintln(c.out, entry)
		}

	case "/clear":
		if err := c.persistence.Clear(c.sess); err != nil {
			fmt.Fprintln(c.out, errorStyle.Render(fmt.Sprintf("clear failed: %v", err)))
		} else {
			fmt.Fprintln(c.out, faintStyle.Render("Session cleared"))
		}

	default:
		fmt.Fprintln(c.out, faintStyle.Render("Commands: /save /sessions /search /export /history /clear /quit"))
	}
	return false
}

func (c *Console) recordInput(question string) {
	c.inputs = append(c.inputs, "[USER] "+question)
	if len(c.inputs) > maxInputHistory {
		c.inputs = c.inputs[len(c.inputs)-maxInputHistory:]
	}
}

// recordAnswer folds the latest assistant reply into the input history so
// later snapshots carry the conversation flow.
func (c *Console) recordAnswer() {
	msgs := c.sess.History.Messages()
	if len(msgs) == 0 {
		return
	}
	last := msgs[len(msgs)-1]
	if last.Role != "model" {
		return
	}
	preview := last.Content
	if runes := []rune(preview); len(runes) > 100 {
		preview = string(runes[:100]) + "..."
	}
	c.inputs = append(c.inputs, "[AI] "+preview)
}

func (c *Console) autosave() {
	if !c.persist {
		return
	}
	if err := c.persistence.Save(c.sess); err != nil {
		fmt.Fprintln(c.out, errorStyle.Render(fmt.Sprintf("autosave failed: %v", err)))
	}
}
