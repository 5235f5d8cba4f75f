package ui

import (
	"context"
	"fmt"
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/atelierhq/connection-manager/internal/board"
	"github.com/atelierhq/connection-manager/internal/domain"
	"github.com/atelierhq/connection-manager/internal/usecase"
)

// ConnectionCard is one draggable connection entry. Tapping opens the edit
// dialog; dragging it onto a state pill reclassifies it.
type ConnectionCard struct {
	widget.BaseWidget
	Conn *domain.Connection

	OnTap       func(*domain.Connection)
	OnDragStart func(*domain.Connection)
	OnDragMove  func(fyne.Position)
	OnDragEnd   func(fyne.Position)

	dragging bool
	lastPos  fyne.Position
}

func NewConnectionCard(conn *domain.Connection) *ConnectionCard {
	card := &ConnectionCard{Conn: conn}
	card.ExtendBaseWidget(card)
	return card
}

func (c *ConnectionCard) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 245, G: 245, B: 250, A: 255})
	bg.StrokeWidth = 1
	bg.StrokeColor = color.RGBA{R: 180, G: 180, B: 190, A: 255}
	bg.Resize(fyne.NewSize(320, 72))

	title := widget.NewLabel(fmt.Sprintf("%s — %s %s", c.Conn.ClientName, c.Conn.InstrumentMaker, c.Conn.InstrumentType))
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.Move(fyne.NewPos(8, 2))
	title.Resize(fyne.NewSize(304, 24))

	info := c.Conn.Notes
	if info == "" {
		info = c.Conn.ClientEmail
	}
	subtitle := widget.NewLabel(fmt.Sprintf("%s · %s", domain.Describe(c.Conn.State).Label, info))
	subtitle.Move(fyne.NewPos(8, 30))
	subtitle.Resize(fyne.NewSize(304, 24))

	objects := []fyne.CanvasObject{bg, title, subtitle}
	return &cardRenderer{objects: objects}
}

type cardRenderer struct {
	objects []fyne.CanvasObject
}

func (r *cardRenderer) Layout(size fyne.Size) {}

func (r *cardRenderer) MinSize() fyne.Size {
	return fyne.NewSize(320, 72)
}

func (r *cardRenderer) Refresh() {
	for _, obj := range r.objects {
		obj.Refresh()
	}
}

func (r *cardRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *cardRenderer) Destroy() {}

func (c *ConnectionCard) Tapped(_ *fyne.PointEvent) {
	if c.OnTap != nil {
		c.OnTap(c.Conn)
	}
}

func (c *ConnectionCard) TappedSecondary(_ *fyne.PointEvent) {}

func (c *ConnectionCard) Dragged(e *fyne.DragEvent) {
	if !c.dragging {
		c.dragging = true
		if c.OnDragStart != nil {
			c.OnDragStart(c.Conn)
		}
	}
	c.lastPos = e.AbsolutePosition
	if c.OnDragMove != nil {
		c.OnDragMove(c.lastPos)
	}
}

func (c *ConnectionCard) DragEnd() {
	if !c.dragging {
		return
	}
	c.dragging = false
	if c.OnDragEnd != nil {
		c.OnDragEnd(c.lastPos)
	}
}

type zoneTarget struct {
	zone   board.DropZone
	button *widget.Button
}

type boardView struct {
	board   *board.Board
	history *board.MemoryHistory
	window  fyne.Window

	searchEntry *widget.Entry
	pills       *fyne.Container
	content     *fyne.Container
	pageLabel   *widget.Label
	prevBtn     *widget.Button
	nextBtn     *widget.Button
	linkLabel   *widget.Label

	zones []zoneTarget
}

// ShowBoardUI builds the connections page and runs the event loop.
func ShowBoardUI(uc *usecase.ConnectionUseCase, history *board.MemoryHistory) {
	a := app.New()
	w := a.NewWindow("Connections")
	w.Resize(fyne.NewSize(1000, 700))

	bv := &boardView{
		history:     history,
		window:      w,
		searchEntry: widget.NewEntry(),
		pills:       container.NewHBox(),
		content:     container.NewVBox(),
		pageLabel:   widget.NewLabel(""),
		linkLabel:   widget.NewLabel(""),
	}

	bv.board = board.NewBoard(uc,
		history,
		func(err error) {
			dialog.ShowError(err, w)
		},
		bv.refresh,
	)

	bv.searchEntry.SetPlaceHolder("Search connections…")
	bv.searchEntry.SetText(bv.board.Filter().Search())
	bv.searchEntry.OnChanged = func(term string) {
		bv.board.SearchChanged(term)
	}

	bv.prevBtn = widget.NewButton("Previous", func() {
		bv.board.PageChanged(bv.board.Filter().Page() - 1)
	})
	bv.nextBtn = widget.NewButton("Next", func() {
		bv.board.PageChanged(bv.board.Filter().Page() + 1)
	})

	clearBtn := widget.NewButton("Clear", func() {
		bv.board.Filter().ClearAll()
		bv.searchEntry.SetText("")
		bv.refresh()
	})

	newBtn := widget.NewButton("New Connection", func() {
		bv.board.OpenCreate()
		bv.showCreateDialog()
	})

	topBar := container.NewBorder(nil, nil, nil, container.NewHBox(clearBtn, newBtn), bv.searchEntry)
	pager := container.NewHBox(bv.prevBtn, bv.pageLabel, bv.nextBtn, layout.NewSpacer(), bv.linkLabel)

	scroll := container.NewScroll(bv.content)
	scroll.SetMinSize(fyne.NewSize(1000, 520))

	w.SetContent(container.NewBorder(
		container.NewVBox(topBar, bv.pills),
		pager,
		nil, nil,
		scroll,
	))

	bv.refresh()
	go bv.board.Load(context.Background())

	w.SetOnClosed(bv.board.Close)
	w.ShowAndRun()
}

// refresh rebuilds the pills, card list and pager from the current view
// model. It runs after every board state change.
func (bv *boardView) refresh() {
	vm := bv.board.View()
	bv.rebuildPills(vm)
	bv.rebuildContent(vm)

	totalPages := vm.TotalPages
	if totalPages < 1 {
		totalPages = 1
	}
	bv.pageLabel.SetText(fmt.Sprintf("Page %d of %d", vm.Page, totalPages))
	if vm.Page <= 1 {
		bv.prevBtn.Disable()
	} else {
		bv.prevBtn.Enable()
	}
	if vm.Page >= totalPages {
		bv.nextBtn.Disable()
	} else {
		bv.nextBtn.Enable()
	}

	if raw := bv.history.RawQuery(); raw != "" {
		bv.linkLabel.SetText("?" + raw)
	} else {
		bv.linkLabel.SetText("")
	}
}

// rebuildPills renders the quick filters, which double as drop zones: "All"
// is always shown, zero-count states are omitted.
func (bv *boardView) rebuildPills(vm board.ViewModel) {
	bv.pills.Objects = nil
	bv.zones = nil

	total := 0
	for _, c := range vm.Counts {
		total += c.Count
	}

	allBtn := widget.NewButton(fmt.Sprintf("All (%d)", total), func() {
		bv.board.FilterChanged("")
	})
	bv.addPill(board.AllZone(), allBtn)

	for _, c := range vm.Counts {
		state := c.State
		btn := widget.NewButton(fmt.Sprintf("%s (%d)", domain.Describe(state).Label, c.Count), func() {
			bv.board.FilterChanged(state)
		})
		bv.addPill(board.StateZone(state), btn)
	}

	if hover := bv.board.Drag().Hover(); hover != nil {
		for _, zt := range bv.zones {
			if *hover == zt.zone {
				zt.button.Importance = widget.HighImportance
			}
		}
	}

	bv.pills.Refresh()
}

func (bv *boardView) addPill(zone board.DropZone, btn *widget.Button) {
	bv.pills.Add(btn)
	bv.zones = append(bv.zones, zoneTarget{zone: zone, button: btn})
}

// rebuildContent shows bucket columns on the "all" view and a flat list when
// a single state is selected. Both render the same page of items.
func (bv *boardView) rebuildContent(vm board.ViewModel) {
	bv.content.Objects = nil

	if bv.board.Filter().State() == "" {
		columns := container.NewHBox()
		for _, state := range domain.States() {
			bucket := vm.Buckets[state]
			col := container.NewVBox(widget.NewLabel(fmt.Sprintf("%s (%d)", domain.Describe(state).Label, len(bucket))))
			for _, conn := range bucket {
				col.Add(bv.newCard(conn))
			}
			columns.Add(col)
		}
		bv.content.Add(columns)
	} else {
		for _, conn := range vm.PageItems {
			bv.content.Add(bv.newCard(conn))
		}
	}

	bv.content.Refresh()
}

func (bv *boardView) newCard(conn *domain.Connection) *ConnectionCard {
	card := NewConnectionCard(conn)
	card.OnTap = bv.showEditDialog
	card.OnDragStart = func(c *domain.Connection) {
		bv.board.DragStart(c.ID)
	}
	card.OnDragMove = func(pos fyne.Position) {
		bv.board.DragOver(bv.zoneAt(pos))
	}
	card.OnDragEnd = func(pos fyne.Position) {
		bv.board.DragEnd(context.Background(), bv.zoneAt(pos))
	}
	return card
}

// zoneAt hit-tests the pointer position against the pill row.
func (bv *boardView) zoneAt(pos fyne.Position) *board.DropZone {
	driver := fyne.CurrentApp().Driver()
	for _, zt := range bv.zones {
		topLeft := driver.AbsolutePositionForObject(zt.button)
		size := zt.button.Size()
		if pos.X >= topLeft.X && pos.X <= topLeft.X+size.Width &&
			pos.Y >= topLeft.Y && pos.Y <= topLeft.Y+size.Height {
			zone := zt.zone
			return &zone
		}
	}
	return nil
}

func (bv *boardView) showCreateDialog() {
	clients := bv.board.Clients()
	instruments := bv.board.Instruments()

	clientOptions := make([]string, len(clients))
	for i, c := range clients {
		clientOptions[i] = fmt.Sprintf("%s <%s>", c.Name, c.Email)
	}
	instrumentOptions := make([]string, len(instruments))
	for i, inst := range instruments {
		instrumentOptions[i] = fmt.Sprintf("%s %s %s", inst.Maker, inst.Type, yearText(inst.Year))
	}

	clientSelect := widget.NewSelect(clientOptions, nil)
	instrumentSelect := widget.NewSelect(instrumentOptions, nil)

	stateSelect := widget.NewSelect(stateOptions(), nil)
	stateSelect.SetSelected(domain.Describe(domain.Interested).Label)

	notesEntry := widget.NewMultiLineEntry()

	formItems := []*widget.FormItem{
		widget.NewFormItem("Client", clientSelect),
		widget.NewFormItem("Instrument", instrumentSelect),
		widget.NewFormItem("State", stateSelect),
		widget.NewFormItem("Notes", notesEntry),
	}

	dialog.ShowForm("New Connection", "Create", "Cancel", formItems, func(valid bool) {
		if !valid {
			bv.board.CloseCreate()
			return
		}
		if bv.board.Submitting() {
			return
		}

		clientID := ""
		if idx := indexOf(clientOptions, clientSelect.Selected); idx >= 0 {
			clientID = clients[idx].ID
		}
		instrumentID := ""
		if idx := indexOf(instrumentOptions, instrumentSelect.Selected); idx >= 0 {
			instrumentID = instruments[idx].ID
		}
		state := stateFromLabel(stateSelect.Selected)

		go bv.board.SubmitCreate(context.Background(), clientID, instrumentID, state, notesEntry.Text)
	}, bv.window)
}

func (bv *boardView) showEditDialog(conn *domain.Connection) {
	bv.board.OpenEdit(conn)

	var pop dialog.Dialog

	stateSelect := widget.NewSelect(stateOptions(), nil)
	stateSelect.SetSelected(domain.Describe(conn.State).Label)
	notesEntry := widget.NewMultiLineEntry()
	notesEntry.SetText(conn.Notes)

	form := widget.NewForm(
		widget.NewFormItem("Client", widget.NewLabel(conn.ClientName)),
		widget.NewFormItem("Instrument", widget.NewLabel(fmt.Sprintf("%s %s %s", conn.InstrumentMaker, conn.InstrumentType, yearText(conn.InstrumentYear)))),
		widget.NewFormItem("State", stateSelect),
		widget.NewFormItem("Notes", notesEntry),
	)

	saveBtn := widget.NewButton("Save", func() {
		if bv.board.Submitting() {
			return
		}
		go func() {
			bv.board.SubmitEdit(context.Background(), conn.ID, stateFromLabel(stateSelect.Selected), notesEntry.Text)
			if !bv.board.EditOpen() {
				pop.Hide()
			}
		}()
	})

	deleteBtn := widget.NewButton("Delete", func() {
		dialog.ShowConfirm("Delete Connection", "Are you sure you want to delete this connection?", func(confirm bool) {
			if !confirm {
				return
			}
			go func() {
				bv.board.Delete(context.Background(), conn)
				pop.Hide()
			}()
		}, bv.window)
	})

	cancelBtn := widget.NewButton("Cancel", func() {
		bv.board.CloseEdit()
		pop.Hide()
	})

	btnBar := container.New(layout.NewGridLayoutWithColumns(3), saveBtn, deleteBtn, cancelBtn)
	pop = dialog.NewCustomWithoutButtons("Edit Connection", container.NewVBox(form, btnBar), bv.window)
	pop.Show()
}

func stateOptions() []string {
	states := domain.States()
	options := make([]string, len(states))
	for i, s := range states {
		options[i] = domain.Describe(s).Label
	}
	return options
}

func stateFromLabel(label string) domain.RelationshipState {
	for _, s := range domain.States() {
		if domain.Describe(s).Label == label {
			return s
		}
	}
	return ""
}

func yearText(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}

func indexOf(arr []string, val string) int {
	for i, v := range arr {
		if v == val {
			return i
		}
	}
	return -1
}
