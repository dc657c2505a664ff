package gateway

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/gsearch/gateway/internal/domain"
)

// uptimeCommand is the one place the gateway shells out. The command is
// a compile-time constant, never user input.
const uptimeCommand = "/usr/bin/uptime"

type commandFunc func(ctx context.Context, cmd domain.UserCommand) (domain.CmdResponse, error)

type command struct {
	name   string
	help   string
	run    commandFunc
	hidden bool
}

// Dispatcher maps a command name to its handler. The table is fixed and
// ordered; lookup is an exact-name match.
type Dispatcher struct {
	session  ChatService
	commands []command
}

// NewDispatcher builds the command table over the chat session.
func NewDispatcher(session ChatService) *Dispatcher {
	d := &Dispatcher{session: session}
	d.commands = []command{
		{name: "/help", help: "This", run: d.help},
		{name: "/bookmarks", help: "List, add, remove bookmarks", run: d.bookmarks},
		{name: "/chat", help: "LLM chat", run: d.chat, hidden: true},
		{name: "/prompt", help: "Get or change prompt", run: d.prompt},
		{name: "/model", help: "Get or change model", run: d.model},
		{name: "/uptime", help: "Uptime", run: d.uptime},
		{name: "/reset", help: "Reset output", run: d.reset},
		{name: "/clear", help: "Clear output", run: d.reset},
	}
	return d
}

// Dispatch runs the named command. Unknown names return
// ErrUnknownCommand, which callers render as a normal response.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd domain.UserCommand) (domain.CmdResponse, error) {
	for _, c := range d.commands {
		if c.name == cmd.Cmd {
			return c.run(ctx, cmd)
		}
	}
	return domain.CmdResponse{}, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Cmd)
}

func (d *Dispatcher) help(ctx context.Context, cmd domain.UserCommand) (domain.CmdResponse, error) {
	var sb strings.Builder
	sb.WriteString("```\ncommands:\n")
	for _, c := range d.commands {
		if !c.hidden {
			fmt.Fprintf(&sb, "    %-12s%s\n", c.name, c.help)
		}
	}
	sb.WriteString("```")

	return domain.CmdResponse{Data: sb.String(), Markdown: true}, nil
}

func (d *Dispatcher) chat(ctx context.Context, cmd domain.UserCommand) (domain.CmdResponse, error) {
	if cmd.Args == "" {
		return domain.CmdResponse{}, fmt.Errorf("%w: missing message", ErrInvalidArgument)
	}

	history := append([]domain.Turn{}, cmd.History...)
	history = append(history, domain.Turn{Role: domain.RoleUser, Content: cmd.Args})

	res, err := d.session.Chat(ctx, history, "")
	if err != nil {
		return domain.CmdResponse{}, err
	}

	return domain.CmdResponse{Data: res.Message, Markdown: true}, nil
}

func (d *Dispatcher) prompt(ctx context.Context, cmd domain.UserCommand) (domain.CmdResponse, error) {
	if cmd.Args != "" {
		if _, err := d.session.SetPrompt(cmd.Args); err != nil {
			return domain.CmdResponse{}, err
		}
	}
	return domain.CmdResponse{Data: d.session.Prompt()}, nil
}

func (d *Dispatcher) model(ctx context.Context, cmd domain.UserCommand) (domain.CmdResponse, error) {
	if cmd.Args != "" {
		if _, err := d.session.SetModel(cmd.Args); err != nil {
			return domain.CmdResponse{}, err
		}
	}
	return domain.CmdResponse{Data: d.session.Model()}, nil
}

func (d *Dispatcher) uptime(ctx context.Context, cmd domain.UserCommand) (domain.CmdResponse, error) {
	out, err := exec.CommandContext(ctx, uptimeCommand).Output()
	if err != nil {
		return domain.CmdResponse{}, fmt.Errorf("uptime failed: %w", err)
	}
	return domain.CmdResponse{Data: "`" + strings.TrimRight(string(out), "\n") + "`", Markdown: true}, nil
}

func (d *Dispatcher) bookmarks(ctx context.Context, cmd domain.UserCommand) (domain.CmdResponse, error) {
	return domain.CmdResponse{}, fmt.Errorf("%w: bookmarks are managed client-side", ErrNotImplemented)
}

func (d *Dispatcher) reset(ctx context.Context, cmd domain.UserCommand) (domain.CmdResponse, error) {
	return domain.CmdResponse{}, fmt.Errorf("%w: output reset is handled client-side", ErrNotImplemented)
}
