package shell

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/smarty/assetmirror/contracts"
)

// InteractiveChooser implements contracts.Chooser as a terminal
// multi-select list, grounded on the bubbletea Init/Update/View loop and
// lipgloss row styling of bureau's ticketui.Model, scaled down to the one
// screen this tool needs: move the cursor, toggle a candidate, confirm
// with enter. Per §4.5, confirming with nothing checked is not a
// confirmation and re-shows the same list; q/esc/ctrl+c aborts the run
// outright. The repeat loop lives here rather than in Selector.
type InteractiveChooser struct{}

func NewInteractiveChooser() InteractiveChooser {
	return InteractiveChooser{}
}

func (InteractiveChooser) Choose(ctx context.Context, candidates []contracts.ManifestSummary) ([]contracts.ManifestDescriptor, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	for {
		model := newChooserModel(candidates)
		program := tea.NewProgram(model, tea.WithContext(ctx))
		result, err := program.Run()
		if err != nil {
			return nil, err
		}

		final := result.(chooserModel)
		if final.aborted {
			return nil, nil
		}
		if final.confirmed {
			return final.selectedDescriptors(), nil
		}
		if final.declined {
			// Per §4.5, confirming with nothing checked is not a
			// confirmation; re-show the list from scratch.
			continue
		}
		// Neither confirmed, declined, nor aborted means the program
		// exited without a terminal keystroke (e.g. context cancellation
		// mid-render); surface that as an abort rather than looping
		// forever.
		return nil, ctx.Err()
	}
}

type chooserModel struct {
	candidates []contracts.ManifestSummary
	selected   map[int]bool
	cursor     int
	confirmed  bool
	declined   bool
	aborted    bool
}

func newChooserModel(candidates []contracts.ManifestSummary) chooserModel {
	return chooserModel{candidates: candidates, selected: map[int]bool{}}
}

func (this chooserModel) Init() tea.Cmd { return nil }

func (this chooserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return this, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "q", "esc":
		this.aborted = true
		return this, tea.Quit
	case "up", "k":
		if this.cursor > 0 {
			this.cursor--
		}
	case "down", "j":
		if this.cursor < len(this.candidates)-1 {
			this.cursor++
		}
	case " ", "x":
		if this.selected[this.cursor] {
			delete(this.selected, this.cursor)
		} else {
			this.selected[this.cursor] = true
		}
	case "enter":
		if len(this.selected) == 0 {
			// Confirming an empty set is not a confirmation per §4.5; quit
			// this program run so Choose's loop re-shows the list.
			this.declined = true
			return this, tea.Quit
		}
		this.confirmed = true
		return this, tea.Quit
	}
	return this, nil
}

func (this chooserModel) View() string {
	cursorStyle := lipgloss.NewStyle().Bold(true)
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	var rendered string
	for index, candidate := range this.candidates {
		marker := "[ ]"
		if this.selected[index] {
			marker = "[x]"
		}
		line := fmt.Sprintf("%s %d (%d file, %s)",
			marker, candidate.Descriptor.Version, candidate.FileCount, humanize.Bytes(candidate.TotalBytes))

		if this.selected[index] {
			line = selectedStyle.Render(line)
		}
		if index == this.cursor {
			line = cursorStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		rendered += line + "\n"
	}

	rendered += "\nspace: toggle  enter: confirm  q: cancel\n"
	return rendered
}

func (this chooserModel) selectedDescriptors() []contracts.ManifestDescriptor {
	var result []contracts.ManifestDescriptor
	for index, candidate := range this.candidates {
		if this.selected[index] {
			result = append(result, candidate.Descriptor)
		}
	}
	return result
}
