// Package tui implements the interactive symbol/segment browser behind
// `spimgo inspect`, adapted from the teacher's tview/tcell debugger view
// into a read-only Context browser: a segment list on the left, that
// segment's symbol table on the right.
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/spimgo/spimgo/pkg/disasm/context"
	"github.com/spimgo/spimgo/pkg/disasm/segment"
)

// App wraps the tview application plus the Context it browses.
type App struct {
	ctx  *context.Context
	tv   *tview.Application
	list *tview.List
	table *tview.Table
}

// New builds the inspector over ctx, not yet running.
func New(ctx *context.Context) *App {
	return &App{ctx: ctx, tv: tview.NewApplication()}
}

// Run starts the event loop; returns when the user quits (q or Ctrl-C).
func (a *App) Run() error {
	a.list = tview.NewList().ShowSecondaryText(false)
	a.table = tview.NewTable().SetBorders(false).SetFixed(1, 0)

	a.list.SetBorder(true).SetTitle(" segments ")
	a.table.SetBorder(true).SetTitle(" symbols ")

	a.populateSegmentList()

	flex := tview.NewFlex().
		AddItem(a.list, 30, 1, true).
		AddItem(a.table, 0, 3, false)

	a.tv.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Rune() == 'q' {
			a.tv.Stop()
			return nil
		}
		return event
	})

	return a.tv.SetRoot(flex, true).SetFocus(a.list).Run()
}

func (a *App) populateSegmentList() {
	a.list.AddItem("global", a.ctx.GlobalSegment().String(), 'g', func() {
		a.showSegment(a.ctx.GlobalSegment())
	})

	for _, category := range a.ctx.OverlayCategories() {
		for vromStart, seg := range a.ctx.OverlaySegmentsInCategory(category) {
			label := fmt.Sprintf("%s @ 0x%06X", category, vromStart)
			seg := seg
			a.list.AddItem(label, "", 0, func() {
				a.showSegment(seg)
			})
		}
	}

	a.showSegment(a.ctx.GlobalSegment())
}

func (a *App) showSegment(seg *segment.SymbolsSegment) {
	a.table.Clear()

	headers := []string{"vram", "name", "type", "section", "size"}
	for col, h := range headers {
		a.table.SetCell(0, col, tview.NewTableCell(h).SetSelectable(false).SetTextColor(tcell.ColorYellow))
	}

	for row, sym := range seg.AllSymbols() {
		size := "?"
		if sym.Size != nil {
			size = fmt.Sprintf("0x%X", *sym.Size)
		}
		a.table.SetCell(row+1, 0, tview.NewTableCell(fmt.Sprintf("0x%08X", sym.Vram)))
		a.table.SetCell(row+1, 1, tview.NewTableCell(sym.DisplayName()))
		a.table.SetCell(row+1, 2, tview.NewTableCell(sym.Type.String()))
		a.table.SetCell(row+1, 3, tview.NewTableCell(sym.Section.String()))
		a.table.SetCell(row+1, 4, tview.NewTableCell(size))
	}
}
