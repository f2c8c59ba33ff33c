package manyglibc

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/ulikunitz/xz"
)

type logInfo struct {
	path    string
	target  string // target identifier parsed from the file name
	stage   string
	content string
}

var (
	tuiApp         *tview.Application
	tuiLogs        []logInfo
	tuiActiveIdx   int
	tuiPrevIdx     int
	tuiHeaderBox   *tview.TextView
	tuiLogView     *tview.TextView
	tuiFooterBox   *tview.TextView
	tuiFlex        *tview.Flex
	tuiUpdateChan  chan []logInfo
	tuiPrevContent map[string]string
)

// readLogFile returns a log file's contents, transparently decompressing
// archived .xz logs.
func readLogFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return "", err
		}
		r = xr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// readAllRunLogs collects the current per-target log files, newest first.
func readAllRunLogs(logsDir string) []logInfo {
	var logs []logInfo
	for _, pattern := range []string{"*.out", "*.err", "*.out.xz", "*.err.xz"} {
		matches, _ := filepath.Glob(filepath.Join(logsDir, pattern))
		for _, path := range matches {
			content, err := readLogFile(path)
			if err != nil {
				continue
			}
			base := strings.TrimSuffix(filepath.Base(path), ".xz")
			base = strings.TrimSuffix(strings.TrimSuffix(base, ".out"), ".err")
			target, stage := base, ""
			if i := strings.LastIndex(base, "_"); i >= 0 {
				target, stage = base[:i], base[i+1:]
			}
			logs = append(logs, logInfo{path: path, target: target, stage: stage, content: content})
		}
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].path < logs[j].path })
	return logs
}

// runLogTUI opens the interactive viewer over the logs directory. The keys
// mirror the usual pager habits: arrows/hjkl to move, PgUp/PgDn, Home/End,
// q to quit.
func runLogTUI(logsDir string) int {
	tuiUpdateChan = make(chan []logInfo, 10)
	tuiPrevContent = make(map[string]string)
	tuiPrevIdx = -1

	tuiApp = tview.NewApplication()

	tuiHeaderBox = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetTextAlign(tview.AlignLeft)
	tuiHeaderBox.SetBorder(true)
	tuiHeaderBox.SetTitle("manyglibc Log Viewer")

	tuiLogView = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetScrollable(true).
		SetChangedFunc(func() {
			tuiApp.Draw()
		})
	tuiLogView.SetBorder(true)

	tuiFooterBox = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetTextAlign(tview.AlignLeft)
	tuiFooterBox.SetBorder(true)
	tuiFooterBox.SetText("[yellow]←/→[white] switch log  [yellow]↑/↓[white] scroll  " +
		"[yellow]PgUp/PgDn Home/End[white] jump  [yellow]q[white] quit")

	tuiFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(tuiHeaderBox, 3, 0, false).
		AddItem(tuiLogView, 0, 1, true).
		AddItem(tuiFooterBox, 3, 0, false)

	tuiFlex.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlQ, tcell.KeyEsc:
			tuiApp.Stop()
			return nil
		case tcell.KeyLeft:
			switchLog(-1)
			return nil
		case tcell.KeyRight:
			switchLog(1)
			return nil
		case tcell.KeyHome:
			tuiLogView.ScrollToBeginning()
			return nil
		case tcell.KeyEnd:
			tuiLogView.ScrollToEnd()
			return nil
		case tcell.KeyUp:
			row, _ := tuiLogView.GetScrollOffset()
			if row > 0 {
				tuiLogView.ScrollTo(row-1, 0)
			}
			return nil
		case tcell.KeyDown:
			row, _ := tuiLogView.GetScrollOffset()
			tuiLogView.ScrollTo(row+1, 0)
			return nil
		case tcell.KeyPgUp:
			row, _ := tuiLogView.GetScrollOffset()
			if row > 10 {
				tuiLogView.ScrollTo(row-10, 0)
			} else {
				tuiLogView.ScrollToBeginning()
			}
			return nil
		case tcell.KeyPgDn:
			row, _ := tuiLogView.GetScrollOffset()
			tuiLogView.ScrollTo(row+10, 0)
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'q':
				tuiApp.Stop()
				return nil
			case 'h':
				switchLog(-1)
				return nil
			case 'l':
				switchLog(1)
				return nil
			}
		}
		return event
	})

	// Refresh the log list while the viewer is open; builds may still be
	// running and appending.
	go func() {
		ticker := time.NewTicker(400 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			logs := readAllRunLogs(logsDir)
			select {
			case tuiUpdateChan <- logs:
			default:
			}
		}
	}()

	go func() {
		for logs := range tuiUpdateChan {
			var currentPath string
			if tuiActiveIdx < len(tuiLogs) {
				currentPath = tuiLogs[tuiActiveIdx].path
			}
			tuiLogs = logs
			if currentPath != "" {
				found := false
				for i, l := range tuiLogs {
					if l.path == currentPath {
						tuiActiveIdx = i
						found = true
						break
					}
				}
				if !found && tuiActiveIdx >= len(tuiLogs) && len(tuiLogs) > 0 {
					tuiActiveIdx = len(tuiLogs) - 1
				}
			}
			tuiApp.QueueUpdateDraw(func() {
				updateLogTUI()
			})
		}
	}()

	tuiApp.SetRoot(tuiFlex, true).SetFocus(tuiLogView)

	tuiLogs = readAllRunLogs(logsDir)
	if len(tuiLogs) > 0 {
		tuiActiveIdx = 0
	}
	updateLogTUI()

	if err := tuiApp.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "logs:", err)
		return 1
	}
	return 0
}

func switchLog(delta int) {
	if len(tuiLogs) == 0 {
		return
	}
	tuiActiveIdx = (tuiActiveIdx + delta + len(tuiLogs)) % len(tuiLogs)
	updateLogTUI()
}

func updateLogTUI() {
	if tuiApp == nil || tuiHeaderBox == nil || tuiLogView == nil {
		return
	}

	if len(tuiLogs) == 0 {
		tuiHeaderBox.SetText("[gray]No logs found[white]")
		tuiLogView.SetText("No logs yet. Run 'manyglibc test <target>' to produce some.")
		return
	}
	if tuiActiveIdx >= len(tuiLogs) {
		tuiActiveIdx = len(tuiLogs) - 1
	}

	l := tuiLogs[tuiActiveIdx]
	tuiHeaderBox.SetText(fmt.Sprintf("[gray]Log %d/%d: %s | %s (%s)[white]",
		tuiActiveIdx+1, len(tuiLogs), l.stage, l.target, l.path))

	prev, had := tuiPrevContent[l.path]
	switched := tuiPrevIdx != tuiActiveIdx
	if switched {
		tuiPrevIdx = tuiActiveIdx
	}
	if l.content != prev || switched || !had {
		tuiLogView.SetText(tview.Escape(l.content))
		tuiPrevContent[l.path] = l.content
		if switched {
			tuiLogView.ScrollToEnd()
		}
	}
}
