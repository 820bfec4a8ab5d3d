package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/pilightctl/internal/api"
	"github.com/muurk/pilightctl/internal/form"
	"github.com/muurk/pilightctl/internal/params"
	"github.com/muurk/pilightctl/internal/store"
)

// inputTarget is the part of a row the text input is editing.
type inputTarget int

const (
	targetValue inputTarget = iota
	targetMultiply
	targetAdd
	targetName
)

// titleRow is the row index of an entity's title line.
const titleRow = -1

// editorPane lists the editors of one entity kind. It mounts an editor per
// confirmed entity and reconciles each against the store after every
// update.
type editorPane struct {
	kind    form.EditorKind
	editors map[int]*form.Editor
	order   []int

	// entity indexes order; row indexes the selected editor's Rows
	entity int
	row    int

	editing bool
	target  inputTarget
	param   string
	input   textinput.Model

	picking bool
	pick    int

	pendingDelete *int
	notice        string

	keys editorKeyMap
}

func newEditorPane(kind form.EditorKind, keys editorKeyMap) editorPane {
	in := textinput.New()
	in.CharLimit = 32
	in.Width = 16
	return editorPane{
		kind:    kind,
		editors: make(map[int]*form.Editor),
		row:     titleRow,
		input:   in,
		keys:    keys,
	}
}

// inputActive reports whether keystrokes belong to the pane's text input
// or transform picker.
func (p editorPane) inputActive() bool { return p.editing || p.picking }

// sync mounts, reconciles and unmounts editors so they follow entities.
// The selection stays on the same entity id when it still exists.
func (p editorPane) sync(entities []params.Entity, schema form.Schema) editorPane {
	selected, hadSelection := p.selectedID()

	order := make([]int, 0, len(entities))
	seen := make(map[int]bool, len(entities))
	for _, e := range entities {
		order = append(order, e.ID)
		seen[e.ID] = true
		if ed, ok := p.editors[e.ID]; ok {
			ed.SetSchema(schema)
			ed.Reconcile(e)
			continue
		}
		p.editors[e.ID] = form.NewEditor(p.kind, e, schema)
	}
	for id := range p.editors {
		if !seen[id] {
			delete(p.editors, id)
		}
	}
	p.order = order

	moved := false
	if hadSelection {
		for i, id := range order {
			if id == selected {
				p.entity = i
				moved = true
				break
			}
		}
	}
	if !moved {
		p.row = titleRow
		p.editing = false
	}
	if p.entity >= len(order) {
		p.entity = len(order) - 1
	}
	if p.entity < 0 {
		p.entity = 0
	}
	if ed := p.current(); ed != nil {
		if p.row >= len(ed.Rows()) {
			p.row = len(ed.Rows()) - 1
		}
		if p.editing {
			p.refreshInput(ed)
		}
	}
	return p
}

func (p editorPane) selectedID() (int, bool) {
	if p.entity < 0 || p.entity >= len(p.order) {
		return 0, false
	}
	return p.order[p.entity], true
}

func (p editorPane) current() *form.Editor {
	id, ok := p.selectedID()
	if !ok {
		return nil
	}
	return p.editors[id]
}

func (p editorPane) currentRow() (form.Row, bool) {
	ed := p.current()
	if ed == nil || p.row == titleRow {
		return form.Row{}, false
	}
	rows := ed.Rows()
	if p.row < 0 || p.row >= len(rows) {
		return form.Row{}, false
	}
	return rows[p.row], true
}

func (p editorPane) update(msg tea.KeyMsg, available []api.TransformType) (editorPane, tea.Cmd) {
	if p.picking {
		return p.updatePicker(msg, available)
	}
	if p.editing {
		return p.updateInput(msg)
	}

	p.notice = ""
	if !key.Matches(msg, p.keys.Delete) {
		p.pendingDelete = nil
	}

	ed := p.current()

	switch {
	case key.Matches(msg, p.keys.Up):
		p = p.moveCursor(-1)

	case key.Matches(msg, p.keys.Down):
		p = p.moveCursor(1)

	case key.Matches(msg, p.keys.New):
		if p.kind == form.EditorTransform && len(available) > 0 {
			p.picking = true
			p.pick = 0
		}

	case ed == nil:
		return p, nil

	case key.Matches(msg, p.keys.Edit):
		if p.row == titleRow {
			if p.kind == form.EditorVariable {
				return p.startInput(ed, targetName, "")
			}
			return p, nil
		}
		row, ok := p.currentRow()
		if !ok {
			return p, nil
		}
		switch row.Control {
		case form.ControlBinding:
			return p.startInput(ed, targetMultiply, row.Name)
		case form.ControlInteger, form.ControlFloat:
			return p.startInput(ed, targetValue, row.Name)
		}

	case key.Matches(msg, p.keys.EditAdd):
		if row, ok := p.currentRow(); ok && row.Bound {
			return p.startInput(ed, targetAdd, row.Name)
		}

	case key.Matches(msg, p.keys.Toggle):
		row, ok := p.currentRow()
		if !ok {
			return p, nil
		}
		if err := ed.ToggleBinding(row.Name, !row.Bound); err != nil {
			p.notice = err.Error()
		}

	case key.Matches(msg, p.keys.Variable):
		row, ok := p.currentRow()
		if !ok || !row.Bound {
			return p, nil
		}
		be, err := ed.Binding(row.Name)
		if err != nil {
			p.notice = err.Error()
			return p, nil
		}
		opts := be.Options()
		next := (be.Selected() + 1) % len(opts)
		if err := ed.SelectVariable(row.Name, opts[next].ID); err != nil {
			p.notice = err.Error()
		}

	case key.Matches(msg, p.keys.Save):
		return p, emit(saveCommand(ed.Save()))

	case key.Matches(msg, p.keys.Delete):
		req := ed.Delete()
		if p.pendingDelete != nil && *p.pendingDelete == req.ID {
			p.pendingDelete = nil
			return p, emit(deleteCommand(req))
		}
		id := req.ID
		p.pendingDelete = &id

	case key.Matches(msg, p.keys.MoveUp):
		if p.kind == form.EditorTransform {
			req := ed.MoveUp()
			return p, emit(store.MoveTransform{ID: req.ID, Delta: req.Delta})
		}

	case key.Matches(msg, p.keys.MoveDown):
		if p.kind == form.EditorTransform {
			req := ed.MoveDown()
			return p, emit(store.MoveTransform{ID: req.ID, Delta: req.Delta})
		}
	}

	return p, nil
}

// moveCursor walks rows, crossing into the neighbouring entity at either
// end of the current one.
func (p editorPane) moveCursor(delta int) editorPane {
	ed := p.current()
	if ed == nil {
		return p
	}
	next := p.row + delta
	if next >= titleRow && next < len(ed.Rows()) {
		p.row = next
		return p
	}
	if delta < 0 && p.entity > 0 {
		p.entity--
		if prev := p.current(); prev != nil {
			p.row = len(prev.Rows()) - 1
		}
		return p
	}
	if delta > 0 && p.entity < len(p.order)-1 {
		p.entity++
		p.row = titleRow
	}
	return p
}

func (p editorPane) startInput(ed *form.Editor, target inputTarget, param string) (editorPane, tea.Cmd) {
	p.editing = true
	p.target = target
	p.param = param
	p.input.SetValue(p.inputText(ed))
	p.input.CursorEnd()
	return p, p.input.Focus()
}

// inputText is the current text of the field the input edits.
func (p editorPane) inputText(ed *form.Editor) string {
	if p.target == targetName {
		return ed.Name()
	}
	if f := p.targetField(ed); f != nil {
		return f.Text()
	}
	return ""
}

func (p editorPane) targetField(ed *form.Editor) *form.Field {
	switch p.target {
	case targetValue:
		f, err := ed.Field(p.param)
		if err != nil {
			return nil
		}
		return f
	case targetMultiply, targetAdd:
		be, err := ed.Binding(p.param)
		if err != nil {
			return nil
		}
		if p.target == targetMultiply {
			return be.Multiply()
		}
		return be.Add()
	}
	return nil
}

// refreshInput pulls the field text back into the input after a reset.
func (p *editorPane) refreshInput(ed *form.Editor) {
	if p.target != targetName && p.targetField(ed) == nil {
		p.editing = false
		p.input.Blur()
		return
	}
	if text := p.inputText(ed); text != p.input.Value() {
		p.input.SetValue(text)
	}
}

func (p editorPane) updateInput(msg tea.KeyMsg) (editorPane, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		p.editing = false
		p.input.Blur()
		return p, nil
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)

	ed := p.current()
	if ed == nil {
		p.editing = false
		return p, cmd
	}

	text := p.input.Value()
	var err error
	switch p.target {
	case targetValue:
		_, err = ed.EditValue(p.param, text)
	case targetMultiply:
		_, err = ed.EditMultiply(p.param, text)
	case targetAdd:
		_, err = ed.EditAdd(p.param, text)
	case targetName:
		err = ed.Rename(text)
	}
	if err != nil {
		p.notice = err.Error()
	}
	return p, cmd
}

func (p editorPane) updatePicker(msg tea.KeyMsg, available []api.TransformType) (editorPane, tea.Cmd) {
	switch msg.String() {
	case "esc":
		p.picking = false
	case "up", "k":
		if p.pick > 0 {
			p.pick--
		}
	case "down", "j":
		if p.pick < len(available)-1 {
			p.pick++
		}
	case "enter":
		p.picking = false
		if p.pick >= 0 && p.pick < len(available) {
			return p, emit(store.AddTransform{TypeID: available[p.pick].ID})
		}
	}
	return p, nil
}

func saveCommand(req form.SaveRequest) tea.Msg {
	if req.Kind == form.EditorVariable {
		return store.SaveVariable{ID: req.ID, Name: req.Name, Params: req.Params}
	}
	return store.SaveTransform{ID: req.ID, Params: req.Params, VariableParams: req.VariableParams}
}

func deleteCommand(req form.DeleteRequest) tea.Msg {
	if req.Kind == form.EditorVariable {
		return store.DeleteVariable{ID: req.ID}
	}
	return store.DeleteTransform{ID: req.ID}
}

func (p editorPane) view(st store.State, height int) string {
	var b strings.Builder

	if p.picking {
		b.WriteString(TitleStyle.Render("Add transform"))
		b.WriteString("\n\n")
		for i, t := range st.AvailableTransforms {
			label := t.LongName
			if t.Description != "" {
				label += "  " + SubtitleStyle.Render(t.Description)
			}
			b.WriteString(RenderMenuItem(label, i == p.pick))
			b.WriteString("\n")
		}
		return b.String()
	}

	if p.notice != "" {
		b.WriteString(ModifiedStyle.Render("  " + p.notice))
		b.WriteString("\n")
	}

	if len(p.order) == 0 {
		b.WriteString(SubtitleStyle.Render(fmt.Sprintf("  No %ss", p.kind)))
		return b.String()
	}

	// Start a couple of cards above the selection so it stays on screen.
	start := p.entity - 2
	if start < 0 {
		start = 0
	}
	used := 0
	for i := start; i < len(p.order); i++ {
		card := p.renderCard(p.editors[p.order[i]], i == p.entity)
		lines := strings.Count(card, "\n") + 1
		if height > 0 && used+lines > height && i > p.entity {
			break
		}
		used += lines
		b.WriteString(card)
		b.WriteString("\n")
	}
	return b.String()
}

func (p editorPane) renderCard(ed *form.Editor, selected bool) string {
	var lines []string

	title := ed.Name()
	if ed.Kind() == form.EditorTransform && ed.Confirmed().LongName != "" {
		title = ed.Confirmed().LongName
	}
	if selected && p.editing && p.target == targetName {
		title = p.input.View()
	}
	title = fmt.Sprintf("%s  #%d", title, ed.ID())
	if ed.State() == form.StateDirty {
		title += "  " + ModifiedStyle.Render("● modified")
	}
	lines = append(lines, RenderMenuItem(title, selected && p.row == titleRow))

	for i, row := range ed.Rows() {
		active := selected && p.row == i
		lines = append(lines, RenderMenuItem(p.renderRow(ed, row, active), active))
	}

	style := CardStyle
	if selected {
		style = SelectedCardStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (p editorPane) renderRow(ed *form.Editor, row form.Row, active bool) string {
	name := ParamNameStyle.Render(row.Name)
	editingHere := active && p.editing && p.param == row.Name

	switch row.Control {
	case form.ControlReadOnly:
		return name + ReadOnlyStyle.Render(params.FormatValue(row.Def.Type, row.Value))

	case form.ControlBinding:
		be, err := ed.Binding(row.Name)
		if err != nil {
			return name + ReadOnlyStyle.Render(row.Binding.String())
		}
		variable := be.Options()[be.Selected()].Label
		mul := FieldStyle(be.Multiply().Status()).Render(be.Multiply().Text())
		add := FieldStyle(be.Add().Status()).Render(be.Add().Text())
		if editingHere && p.target == targetMultiply {
			mul = p.input.View()
		}
		if editingHere && p.target == targetAdd {
			add = p.input.View()
		}
		return fmt.Sprintf("%s← %s × %s + %s", name, variable, mul, add)

	default:
		f, err := ed.Field(row.Name)
		if err != nil {
			return name + ReadOnlyStyle.Render(params.FormatValue(row.Def.Type, row.Value))
		}
		text := FieldStyle(f.Status()).Render(f.Text())
		if editingHere && p.target == targetValue {
			text = p.input.View()
		}
		if f.Edited() {
			text += "  " + SubtitleStyle.Render("was "+params.Format(row.Def.Type, f.Orig()))
		}
		if row.CanBind {
			text += "  " + SubtitleStyle.Render("[b]ind")
		}
		return name + text
	}
}
