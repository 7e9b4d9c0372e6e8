package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	SignUp(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Add(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context) error
	Edit(ctx context.Context) error
	Delete(ctx context.Context) error
	Deleted(ctx context.Context) error
	Restore(ctx context.Context) error
	Purge(ctx context.Context) error
	Stats(ctx context.Context) error
	Sync(ctx context.Context) error
	Push(ctx context.Context) error
	Profile(ctx context.Context) error
}

// runREPL reads a line, parses the first token as the command, and
// dispatches to methods on a. Unknown commands are reported back. The loop
// exits on EOF, on "exit"/"quit", or when ctx is done. Errors returned by
// command handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("myday> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				printlnFn(fmt.Sprintf("input error: %v", err))
			}
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: add, list, show, edit, delete, deleted, restore, purge, stats, sync, push, profile, logout, exit")
			} else {
				printlnFn("Available commands: signup, login, add, list, show, edit, delete, deleted, restore, purge, stats, exit")
			}
		case "signup":
			cmdErr = a.SignUp(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "add":
			cmdErr = a.Add(ctx)
		case "list", "l":
			cmdErr = a.List(ctx)
		case "show":
			cmdErr = a.Show(ctx)
		case "edit":
			cmdErr = a.Edit(ctx)
		case "delete":
			cmdErr = a.Delete(ctx)
		case "deleted":
			cmdErr = a.Deleted(ctx)
		case "restore":
			cmdErr = a.Restore(ctx)
		case "purge":
			cmdErr = a.Purge(ctx)
		case "stats":
			cmdErr = a.Stats(ctx)
		case "sync":
			cmdErr = a.Sync(ctx)
		case "push":
			cmdErr = a.Push(ctx)
		case "profile":
			cmdErr = a.Profile(ctx)
		case "exit", "quit":
			return
		default:
			printlnFn(fmt.Sprintf("unknown command: %s (try 'help')", cmd))
		}
		if cmdErr != nil {
			printlnFn(fmt.Sprintf("error: %v", cmdErr))
		}
	}
}
