package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pomotrack/pomotrack/internal/core/models"
	"github.com/pomotrack/pomotrack/internal/core/timer"
)

// runSession drives the machine with a one-second ticker until it goes
// idle, reading single-letter commands from stdin:
//
//	p pause, r resume, i record interruption, s skip, q quit
//
// Quit discards the in-flight session without recording it.
func runSession(m *timer.Machine) error {
	cmds := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			select {
			case cmds <- strings.TrimSpace(strings.ToLower(sc.Text())):
			case <-done:
				return
			}
		}
	}()

	fmt.Println(dimStyle.Render("[p]ause  [r]esume  [i]nterruption  [s]kip  [q]uit"))

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			elapsed := now.Sub(last)
			last = now

			if m.CurrentState() == timer.StatePaused {
				renderLine(m)
				continue
			}
			if err := m.Tick(elapsed); err != nil {
				if models.IsStorageError(err) {
					fmt.Println()
					fmt.Println(warnStyle.Render("could not save session, retrying: " + err.Error()))
					continue
				}
				return err
			}
			if m.CurrentState() == timer.StateIdle {
				fmt.Println()
				return nil
			}
			renderLine(m)

		case c := <-cmds:
			var err error
			switch c {
			case "p":
				err = m.Pause()
			case "r":
				err = m.Resume()
			case "i":
				err = m.RecordInterruption()
				if err == nil {
					fmt.Println()
					fmt.Println(warnStyle.Render("interruption recorded"))
				}
			case "s":
				err = m.Skip()
				if err == nil && m.CurrentState() == timer.StateIdle {
					fmt.Println()
					return nil
				}
			case "q":
				m.Discard()
				fmt.Println()
				fmt.Println(dimStyle.Render("session discarded"))
				return nil
			case "":
				continue
			default:
				fmt.Println(dimStyle.Render("unknown command " + c))
			}
			if err != nil {
				fmt.Println(dimStyle.Render(err.Error()))
			}
		}
	}
}

func renderLine(m *timer.Machine) {
	snap := m.CurrentSnapshot()

	remaining := snap.Remaining
	if remaining < 0 {
		remaining = 0
	}
	clock := fmt.Sprintf("%02d:%02d", int(remaining.Minutes()), int(remaining.Seconds())%60)

	style := timerStyle
	label := snap.TaskName
	if snap.Phase.IsBreak() {
		style = breakTimerStyle
		label = "break"
		if snap.Phase == models.PhaseLongBreak {
			label = "long break"
		}
	}

	line := fmt.Sprintf("%s  %s", style.Render(clock), label)
	if snap.State == timer.StatePaused {
		line += dimStyle.Render("  (paused)")
	}
	if snap.Interruptions > 0 {
		line += warnStyle.Render(fmt.Sprintf("  %d interruption(s)", snap.Interruptions))
	}
	fmt.Printf("\r\033[K%s", line)
}
