package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ecemunal/planline/internal/model"
	"github.com/ecemunal/planline/internal/store"
)

// boardModel is the Board view: one category at a time, with the full
// create/edit/complete/reorder lifecycle of items.
type boardModel struct {
	store  *store.Store
	width  int
	height int

	catIndex int
	items    []model.Item
	cursor   int

	formActive bool
	form       *huh.Form
	formMode   string // "new", "edit"

	// Form field pointers (survive value copies)
	formTitle       *string
	formDescription *string
	formPriority    *string
	formCategory    *string

	editingID string
}

func newBoardModel(s *store.Store) boardModel {
	title, desc := "", ""
	prio := string(model.DefaultPriority)
	cat := string(model.CategoryToday)
	return boardModel{
		store:           s,
		formTitle:       &title,
		formDescription: &desc,
		formPriority:    &prio,
		formCategory:    &cat,
	}
}

func (b boardModel) Init() tea.Cmd {
	return b.refresh()
}

func (b *boardModel) setSize(w, h int) {
	b.width = w
	b.height = h
}

func (b boardModel) category() model.Category {
	return model.Categories[b.catIndex]
}

func (b boardModel) refresh() tea.Cmd {
	cat := b.category()
	return func() tea.Msg {
		return boardDataMsg{items: b.store.ItemsByCategory(cat)}
	}
}

func (b boardModel) update(msg tea.Msg) (boardModel, tea.Cmd) {
	if b.formActive && b.form != nil {
		return b.updateForm(msg)
	}

	switch msg := msg.(type) {
	case boardDataMsg:
		b.items = msg.items
		if b.cursor >= len(b.items) {
			b.cursor = max(0, len(b.items)-1)
		}
		return b, nil

	case tea.KeyMsg:
		return b.updateList(msg)
	}
	return b, nil
}

func (b boardModel) updateList(msg tea.KeyMsg) (boardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if b.cursor > 0 {
			b.cursor--
		}
	case key.Matches(msg, keys.Down):
		if b.cursor < len(b.items)-1 {
			b.cursor++
		}
	case key.Matches(msg, keys.Left):
		b.catIndex = (b.catIndex + len(model.Categories) - 1) % len(model.Categories)
		b.cursor = 0
		return b, b.refresh()
	case key.Matches(msg, keys.Right):
		b.catIndex = (b.catIndex + 1) % len(model.Categories)
		b.cursor = 0
		return b, b.refresh()

	case key.Matches(msg, keys.New):
		return b.showNewForm()

	case key.Matches(msg, keys.Enter):
		if len(b.items) > 0 {
			return b.showEditForm()
		}

	case key.Matches(msg, keys.Start):
		if len(b.items) > 0 {
			item := b.items[b.cursor]
			return b, func() tea.Msg { return startRequestMsg{item: item} }
		}

	case key.Matches(msg, keys.Done):
		if len(b.items) > 0 {
			item := b.items[b.cursor]
			next := model.StatusCompleted
			if item.Status == model.StatusCompleted {
				next = model.StatusPending
			}
			b.store.ToggleStatus(item.ID, next)
			return b, b.refresh()
		}

	case key.Matches(msg, keys.Archive):
		if len(b.items) > 0 {
			b.store.ArchiveItem(b.items[b.cursor].ID)
			return b, b.refresh()
		}

	case key.Matches(msg, keys.Delete):
		if len(b.items) > 0 {
			b.store.DeleteItem(b.items[b.cursor].ID)
			return b, b.refresh()
		}

	case key.Matches(msg, keys.ClearDone):
		n := b.store.ClearCompleted()
		return b, tea.Batch(
			b.refresh(),
			func() tea.Msg { return statusMsg{text: fmt.Sprintf("Cleared %d completed", n)} },
		)

	case key.Matches(msg, keys.MoveUp):
		return b.moveItem(-1)

	case key.Matches(msg, keys.MoveDown):
		return b.moveItem(1)
	}
	return b, nil
}

// moveItem swaps the selected item with its neighbor and persists the new
// ordering for the whole category.
func (b boardModel) moveItem(delta int) (boardModel, tea.Cmd) {
	target := b.cursor + delta
	if len(b.items) < 2 || target < 0 || target >= len(b.items) {
		return b, nil
	}

	ids := make([]string, len(b.items))
	for i, it := range b.items {
		ids[i] = it.ID
	}
	ids[b.cursor], ids[target] = ids[target], ids[b.cursor]

	b.store.ReorderItems(b.category(), ids)
	b.cursor = target
	return b, b.refresh()
}

func priorityOptions() []huh.Option[string] {
	prios := []model.Priority{model.PriorityLow, model.PriorityMedium, model.PriorityHigh, model.PriorityUrgent}
	opts := make([]huh.Option[string], len(prios))
	for i, p := range prios {
		opts[i] = huh.NewOption(string(p), string(p))
	}
	return opts
}

func categoryOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(model.Categories))
	for i, c := range model.Categories {
		opts[i] = huh.NewOption(categoryLabel(c), string(c))
	}
	return opts
}

func (b boardModel) showNewForm() (boardModel, tea.Cmd) {
	*b.formTitle = ""
	*b.formDescription = ""
	*b.formPriority = string(model.DefaultPriority)
	*b.formCategory = string(b.category())
	b.formMode = "new"

	b.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(b.formTitle),
			huh.NewInput().Title("Description").Value(b.formDescription),
			huh.NewSelect[string]().Title("Priority").Options(priorityOptions()...).Value(b.formPriority),
			huh.NewSelect[string]().Title("Category").Options(categoryOptions()...).Value(b.formCategory),
		),
	).WithShowHelp(true).WithShowErrors(true)

	b.formActive = true
	return b, b.form.Init()
}

func (b boardModel) showEditForm() (boardModel, tea.Cmd) {
	item := b.items[b.cursor]
	*b.formTitle = item.Title
	*b.formDescription = item.Description
	*b.formPriority = string(item.Priority)
	*b.formCategory = string(item.Category)
	b.formMode = "edit"
	b.editingID = item.ID

	// Capture the original title so escaping mid-edit rolls it back.
	b.store.StartEdit(item.ID, store.EditFieldTitle)

	b.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(b.formTitle),
			huh.NewInput().Title("Description").Value(b.formDescription),
			huh.NewSelect[string]().Title("Priority").Options(priorityOptions()...).Value(b.formPriority),
			huh.NewSelect[string]().Title("Category").Options(categoryOptions()...).Value(b.formCategory),
		),
	).WithShowHelp(true).WithShowErrors(true)

	b.formActive = true
	return b, b.form.Init()
}

func (b boardModel) updateForm(msg tea.Msg) (boardModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			b.formActive = false
			b.form = nil
			if b.formMode == "edit" {
				b.store.CancelEdit()
			}
			return b, b.refresh()
		}
	}

	form, cmd := b.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		b.form = f
	}

	if b.form.State == huh.StateCompleted {
		b.formActive = false
		switch b.formMode {
		case "new":
			if *b.formTitle != "" {
				prio := model.Priority(*b.formPriority)
				_, err := b.store.CreateItem(store.CreateParams{
					Title:       *b.formTitle,
					Description: *b.formDescription,
					Priority:    prio,
					Category:    model.Category(*b.formCategory),
				})
				if err != nil {
					return b, func() tea.Msg {
						return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
					}
				}
			}
			return b, b.refresh()

		case "edit":
			prio := model.Priority(*b.formPriority)
			cat := model.Category(*b.formCategory)
			_, err := b.store.UpdateItem(b.editingID, store.ItemUpdate{
				Title:       b.formTitle,
				Description: b.formDescription,
				Priority:    &prio,
				Category:    &cat,
			})
			b.store.CommitEdit()
			if err != nil {
				return b, func() tea.Msg {
					return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
				}
			}
			return b, b.refresh()
		}
	}

	return b, cmd
}

func (b boardModel) view() string {
	if b.formActive && b.form != nil {
		title := titleStyle.Render("New Item")
		if b.formMode == "edit" {
			title = titleStyle.Render("Edit Item")
		}
		formView := b.form.View()
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", formView)
		return panelStyle.Width(b.width - 4).Render(content)
	}

	return b.renderList()
}

func (b boardModel) renderList() string {
	w := b.width - 4

	// Category tabs within the board
	var tabs []string
	for i, c := range model.Categories {
		label := categoryLabel(c)
		if i == b.catIndex {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	if len(b.items) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			mutedStyle.Render("No items here. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, header)
	rows = append(rows, "")

	for i, item := range b.items {
		rows = append(rows, b.renderItemRow(i, item))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter: edit  space: done  s: track  d: delete  ←/→: category"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (b boardModel) renderItemRow(i int, item model.Item) string {
	cursor := "  "
	style := normalItemStyle
	if i == b.cursor {
		cursor = "> "
		style = selectedItemStyle
	}

	check := "[ ]"
	if item.Status == model.StatusCompleted {
		check = "[x]"
		if i != b.cursor {
			style = doneItemStyle
		}
	} else if item.Status == model.StatusInProgress {
		check = "[●]"
	}

	prio := priorityStyle(item.Priority).Render(string(item.Priority))
	row := style.Render(fmt.Sprintf("%s%s %-40s", cursor, check, item.Title)) + " " + prio

	if item.DueDate != nil {
		row += mutedStyle.Render("  due " + item.DueDate.Local().Format("Jan 02"))
	}
	if len(item.Tags) > 0 {
		row += mutedStyle.Render("  [" + strings.Join(item.Tags, ",") + "]")
	}
	return row
}
