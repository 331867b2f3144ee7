// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package gridui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/fleetgrid/lib/clock"
	"github.com/bureau-foundation/fleetgrid/lib/grid"
	"github.com/bureau-foundation/fleetgrid/lib/nodestate"
	"github.com/bureau-foundation/fleetgrid/lib/palette"
	"github.com/bureau-foundation/fleetgrid/lib/topology"
)

// Source supplies node lists and composite membership.
// nodesource.FileSource implements it.
type Source interface {
	FetchNodeList() (nodes []nodestate.Node, changed bool, err error)
	Force()
	grid.CompositeSource
}

// Options configures a Model. Zero values select defaults.
type Options struct {
	Descriptor topology.Descriptor
	Layout     topology.Options

	// Assigner defaults to the built-in palette.
	Assigner *palette.Assigner

	// Clock defaults to the real clock.
	Clock clock.Clock

	// RefreshInterval defaults to 5s, BlinkInterval to 500ms.
	RefreshInterval time.Duration
	BlinkInterval   time.Duration

	// Watch, when set, triggers a refresh on every value.
	Watch <-chan struct{}

	// Theme defaults to DefaultTheme.
	Theme Theme

	Logger *slog.Logger

	// Context bounds resyncs. Defaults to context.Background.
	Context context.Context
}

// Overlay colors.
const (
	// searchSlot paints live search matches above every other layer.
	searchSlot palette.Slot = 12
)

// stateSlot is the color of a node's state layer.
func stateSlot(state nodestate.State) palette.Slot {
	if state.Has(nodestate.Completing) {
		return 6
	}
	switch state.Base() {
	case nodestate.Down, nodestate.Error:
		// Shown as a fault icon; the slot only matters once the
		// fault clears.
		return 2
	case nodestate.Allocated:
		return 0
	case nodestate.Idle:
		return 1
	case nodestate.Mixed:
		return 3
	case nodestate.Future:
		return 9
	default:
		return palette.Placeholder
	}
}

type refreshTickMsg struct{}

type snapshotChangedMsg struct{}

type blinkMsg struct{}

type fetchResultMsg struct {
	nodes   []nodestate.Node
	changed bool
	err     error
}

// Model is the bubbletea model of the grid viewer.
type Model struct {
	source       Source
	synchronizer *grid.Synchronizer
	highlighter  *grid.Highlighter
	factory      *grid.Factory
	blinker      *grid.Blinker
	clock        clock.Clock
	logger       *slog.Logger
	ctx          context.Context
	theme        Theme
	keys         KeyMap

	refreshInterval time.Duration
	watch           <-chan struct{}

	// Grid state. main is nil until the first successful build;
	// gridErr holds the reason the grid cannot be shown.
	main      *grid.Collection
	gridErr   error
	fetchErr  error
	unplaced  int
	refreshed time.Time
	fetching  bool

	cursor   int // Node index under the cursor; -1 when the grid is empty.
	selected map[int]bool

	// Fuzzy search.
	searching bool
	query     string
	matches   []nodeMatch

	popup *popup

	width  int
	height int

	status      string
	statusLevel slog.Level
	statusSeq   int
}

// NewModel returns a viewer over source. No data is fetched until the
// program runs Init.
func NewModel(source Source, options Options) Model {
	if options.Assigner == nil {
		assigner, err := palette.NewAssigner(palette.DefaultTable())
		if err != nil {
			panic("gridui: default palette rejected: " + err.Error())
		}
		options.Assigner = assigner
	}
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.RefreshInterval <= 0 {
		options.RefreshInterval = 5 * time.Second
	}
	if options.BlinkInterval <= 0 {
		options.BlinkInterval = 500 * time.Millisecond
	}
	if options.Theme == (Theme{}) {
		options.Theme = DefaultTheme
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.DiscardHandler)
	}
	if options.Context == nil {
		options.Context = context.Background()
	}

	return Model{
		source:          source,
		synchronizer:    grid.NewSynchronizer(options.Descriptor, options.Layout, options.Assigner, options.Logger),
		highlighter:     grid.NewHighlighter(options.Assigner, options.Logger),
		factory:         grid.NewFactory(options.Assigner, options.Layout, options.Logger),
		blinker:         grid.NewBlinker(options.Clock, options.BlinkInterval),
		clock:           options.Clock,
		logger:          options.Logger,
		ctx:             options.Context,
		theme:           options.Theme,
		keys:            DefaultKeyMap,
		refreshInterval: options.RefreshInterval,
		watch:           options.Watch,
		cursor:          -1,
		selected:        make(map[int]bool),
	}
}

// Init implements tea.Model: fetch now, schedule the next poll and
// start listening to the watcher.
func (model Model) Init() tea.Cmd {
	commands := []tea.Cmd{model.fetchCmd(), model.scheduleRefresh()}
	if model.watch != nil {
		commands = append(commands, listenForWatch(model.watch))
	}
	return tea.Batch(commands...)
}

func (model Model) fetchCmd() tea.Cmd {
	source := model.source
	return func() tea.Msg {
		nodes, changed, err := source.FetchNodeList()
		return fetchResultMsg{nodes: nodes, changed: changed, err: err}
	}
}

// scheduleRefresh arms the poll timer now, so a fake clock sees the
// waiter as soon as the command is created.
func (model Model) scheduleRefresh() tea.Cmd {
	fired := model.clock.After(model.refreshInterval)
	return func() tea.Msg {
		<-fired
		return refreshTickMsg{}
	}
}

func listenForWatch(channel <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-channel; !ok {
			return nil
		}
		return snapshotChangedMsg{}
	}
}

func listenForBlink(channel <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-channel; !ok {
			return nil
		}
		return blinkMsg{}
	}
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		if model.searching {
			return model.handleSearchKeys(message)
		}
		return model.handleKeys(message)

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height

	case refreshTickMsg:
		commands := []tea.Cmd{model.scheduleRefresh()}
		if !model.fetching {
			model.fetching = true
			commands = append(commands, model.fetchCmd())
		}
		return model, tea.Batch(commands...)

	case snapshotChangedMsg:
		commands := []tea.Cmd{listenForWatch(model.watch)}
		if !model.fetching {
			model.fetching = true
			commands = append(commands, model.fetchCmd())
		}
		return model, tea.Batch(commands...)

	case fetchResultMsg:
		model.fetching = false
		model.applyFetch(message.nodes, message.changed, message.err)

	case blinkMsg:
		if model.blinker.Running() && model.main != nil {
			model.blinker.Toggle(model.main)
			return model, listenForBlink(model.blinker.C())
		}

	case logRecordMsg:
		model.statusSeq++
		model.status = message.Summary
		model.statusLevel = message.Level
		sequence := model.statusSeq
		return model, tea.Tick(logRecordFadeDelay, func(time.Time) tea.Msg {
			return logRecordFadeMsg{Sequence: sequence}
		})

	case logRecordFadeMsg:
		if message.Sequence == model.statusSeq {
			model.status = ""
		}
	}
	return model, nil
}

func (model Model) handleKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		model.blinker.Stop()
		return model, tea.Quit

	case key.Matches(message, model.keys.Close):
		if model.popup != nil {
			model.closePopup()
		}

	case key.Matches(message, model.keys.Up):
		model.moveVertical(-1)
	case key.Matches(message, model.keys.Down):
		model.moveVertical(1)
	case key.Matches(message, model.keys.Left):
		model.moveOrdinal(-1)
	case key.Matches(message, model.keys.Right):
		model.moveOrdinal(1)
	case key.Matches(message, model.keys.Home):
		if model.main != nil && model.main.Len() > 0 {
			model.cursor = model.main.At(0).Index()
		}
	case key.Matches(message, model.keys.End):
		if model.main != nil && model.main.Len() > 0 {
			model.cursor = model.main.At(model.main.Len() - 1).Index()
		}

	case key.Matches(message, model.keys.Toggle):
		if model.cursor >= 0 {
			if model.selected[model.cursor] {
				delete(model.selected, model.cursor)
			} else {
				model.selected[model.cursor] = true
			}
			model.repaint()
		}

	case key.Matches(message, model.keys.ClearSelect):
		model.selected = make(map[int]bool)
		model.repaint()

	case key.Matches(message, model.keys.Search):
		model.searching = true
		model.query = ""
		model.matches = nil

	case key.Matches(message, model.keys.NodePopup):
		model.openNodePopup()

	case key.Matches(message, model.keys.BlockPopup):
		model.openBlockPopup()

	case key.Matches(message, model.keys.Refresh):
		model.source.Force()
		if !model.fetching {
			model.fetching = true
			return model, model.fetchCmd()
		}

	case key.Matches(message, model.keys.Blink):
		return model.toggleBlink()
	}
	return model, nil
}

func (model Model) handleSearchKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyEsc:
		model.searching = false
		model.query = ""
		model.matches = nil
	case tea.KeyEnter:
		model.searching = false
		if len(model.matches) > 0 {
			model.selected = make(map[int]bool, len(model.matches))
			for _, match := range model.matches {
				model.selected[match.Index] = true
			}
			model.cursor = model.matches[0].Index
		}
		model.query = ""
		model.matches = nil
	case tea.KeyBackspace:
		if runes := []rune(model.query); len(runes) > 0 {
			model.query = string(runes[:len(runes)-1])
			model.updateMatches()
		}
	case tea.KeyRunes:
		model.query += string(message.Runes)
		model.updateMatches()
	case tea.KeySpace:
		model.query += " "
		model.updateMatches()
	default:
		return model, nil
	}
	model.repaint()
	return model, nil
}

func (model *Model) updateMatches() {
	if model.main == nil {
		return
	}
	names := make(map[int]string, model.main.Len())
	for _, view := range model.main.Cells() {
		names[view.Index] = view.Name
	}
	model.matches = matchNodes(names, model.query)
}

// applyFetch folds one fetch result into the grid.
func (model *Model) applyFetch(nodes []nodestate.Node, changed bool, err error) {
	if err != nil {
		model.fetchErr = err
		model.logger.Warn("node list fetch failed", "error", err)
		return
	}
	model.fetchErr = nil
	model.refreshed = model.clock.Now()

	switch {
	case model.main == nil:
		collection, report, err := model.synchronizer.Build(nodes)
		if err != nil {
			model.gridErr = err
			return
		}
		model.gridErr = nil
		model.main = collection
		model.unplaced = len(report.Unplaced)
		model.synchronizer.RefreshBaseline(model.main, nodestate.StatesByIndex(nodes))
		model.afterNodeListChange()

	case changed:
		report, err := model.synchronizer.Resync(model.ctx, model.main, nodes)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				model.gridErr = err
			}
			return
		}
		model.unplaced = len(report.Unplaced)
		model.synchronizer.RefreshBaseline(model.main, nodestate.StatesByIndex(nodes))
		model.afterNodeListChange()

	default:
		model.synchronizer.ResetUsage(model.main, grid.All, false)
	}

	model.paintOverlay()
	model.refreshPopup(changed)
}

// afterNodeListChange drops selection entries and the cursor for
// nodes that left the grid.
func (model *Model) afterNodeListChange() {
	for index := range model.selected {
		if _, present := model.main.Lookup(index); !present {
			delete(model.selected, index)
		}
	}
	if _, present := model.main.Lookup(model.cursor); !present {
		model.cursor = -1
		if model.main.Len() > 0 {
			model.cursor = model.main.At(0).Index()
		}
	}
}

// repaint redraws the overlay without a fetch, after the selection or
// search changed.
func (model *Model) repaint() {
	if model.main == nil {
		return
	}
	model.synchronizer.ResetUsage(model.main, grid.All, false)
	model.paintOverlay()
}

// paintOverlay paints the layers in priority order: live search
// matches, then one layer per node state. Selected nodes are
// highlighted unless the blinker owns the highlight.
func (model *Model) paintOverlay() grid.Outcome {
	var outcome grid.Outcome
	merge := func(next grid.Outcome) {
		outcome.Touched += next.Touched
		outcome.Changed = outcome.Changed || next.Changed
	}
	options := grid.ApplyOptions{OnlyIfUnused: true}

	if len(model.matches) > 0 {
		indexes := make([]int, len(model.matches))
		for position, match := range model.matches {
			indexes[position] = match.Index
		}
		merge(model.highlighter.Apply(model.main, selectionsFor(grid.RangesFromIndexes(indexes), searchSlot), options))
	}
	merge(model.highlighter.Apply(model.main, model.stateLayers(), options))
	if !model.blinker.Running() {
		merge(model.highlighter.SetHighlight(model.main, model.selectionRanges()))
	}
	return outcome
}

// stateLayers groups the grid's nodes by state color.
func (model *Model) stateLayers() []grid.Selection {
	bySlot := make(map[palette.Slot][]int)
	for position := 0; position < model.main.Len(); position++ {
		cell := model.main.At(position)
		slot := stateSlot(cell.State())
		bySlot[slot] = append(bySlot[slot], cell.Index())
	}
	slots := make([]palette.Slot, 0, len(bySlot))
	for slot := range bySlot {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(a, b int) bool { return slots[a] < slots[b] })

	var layers []grid.Selection
	for _, slot := range slots {
		layers = append(layers, selectionsFor(grid.RangesFromIndexes(bySlot[slot]), slot)...)
	}
	return layers
}

func selectionsFor(ranges []grid.Range, slot palette.Slot) []grid.Selection {
	selections := make([]grid.Selection, len(ranges))
	for position, r := range ranges {
		selections[position] = grid.Selection{Range: r, Slot: slot}
	}
	return selections
}

// selectionRanges coalesces the selected node indexes.
func (model *Model) selectionRanges() []grid.Range {
	indexes := make([]int, 0, len(model.selected))
	for index := range model.selected {
		indexes = append(indexes, index)
	}
	return grid.RangesFromIndexes(indexes)
}

// subjectRanges is the selection, or the cursor node when nothing is
// selected.
func (model *Model) subjectRanges() []grid.Range {
	if ranges := model.selectionRanges(); len(ranges) > 0 {
		return ranges
	}
	if model.cursor >= 0 {
		return []grid.Range{grid.Single(model.cursor)}
	}
	return nil
}

func (model Model) toggleBlink() (tea.Model, tea.Cmd) {
	if model.main == nil {
		return model, nil
	}
	if model.blinker.Running() {
		model.blinker.Stop()
		model.highlighter.SetHighlight(model.main, model.selectionRanges())
		return model, nil
	}
	ranges := model.subjectRanges()
	if len(ranges) == 0 {
		return model, nil
	}
	model.blinker.Set(ranges)
	model.highlighter.SetHighlight(model.main, nil)
	model.blinker.Start()
	return model, listenForBlink(model.blinker.C())
}

// moveOrdinal moves the cursor by delta cells in index order.
func (model *Model) moveOrdinal(delta int) {
	if model.main == nil || model.main.Len() == 0 {
		return
	}
	indexes := model.main.Indexes()
	position := sort.SearchInts(indexes, model.cursor) + delta
	if position < 0 {
		position = 0
	}
	if position >= len(indexes) {
		position = len(indexes) - 1
	}
	model.cursor = indexes[position]
}

// moveVertical moves the cursor to the nearest placed cell in the same
// column, direction -1 for up and +1 for down.
func (model *Model) moveVertical(direction int) {
	if model.main == nil {
		return
	}
	current, present := model.main.Lookup(model.cursor)
	if !present || !current.Placed() {
		return
	}
	origin := current.Position()
	best, bestDistance := -1, 0
	for _, view := range model.main.Cells() {
		if !view.Position.IsSet() || view.Position.X != origin.X {
			continue
		}
		distance := (view.Position.Y - origin.Y) * direction
		if distance <= 0 {
			continue
		}
		if best < 0 || distance < bestDistance {
			best, bestDistance = view.Index, distance
		}
	}
	if best >= 0 {
		model.cursor = best
	}
}

// View implements tea.Model.
func (model Model) View() string {
	lines := model.frame()
	lines = append(lines, model.renderStatus())
	return strings.Join(model.clip(lines), "\n")
}

// frame renders the header, the grid and any popup.
func (model Model) frame() []string {
	lines := []string{model.renderHeader()}
	switch {
	case model.gridErr != nil:
		lines = append(lines, lipgloss.NewStyle().Foreground(model.theme.ErrorText).
			Render("grid unavailable: "+model.gridErr.Error()))
	case model.main == nil:
		waiting := "waiting for node list"
		if model.fetchErr != nil {
			waiting = "node list unavailable: " + model.fetchErr.Error()
		}
		lines = append(lines, lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(waiting))
	default:
		body := renderGrid(model.main.Cells(), model.main.Width(), model.main.Height(), model.cursor, model.theme)
		lines = append(lines, body.lines...)
		if model.popup != nil {
			overlay := model.renderPopup()
			lines = append(lines[:1], spliceOverlay(lines[1:], overlay, 2, 1)...)
		}
	}
	return lines
}

func (model Model) clip(lines []string) []string {
	if model.width <= 0 {
		return lines
	}
	clipped := make([]string, len(lines))
	for position, line := range lines {
		clipped[position] = ansi.Truncate(line, model.width, "")
	}
	return clipped
}

func (model Model) renderHeader() string {
	parts := []string{"fleetgrid", model.synchronizer.Descriptor().String()}
	if model.main != nil {
		parts = append(parts,
			fmt.Sprintf("%d nodes", model.main.Len()),
			fmt.Sprintf("%d×%d", model.main.Width(), model.main.Height()),
		)
		if model.unplaced > 0 {
			parts = append(parts, fmt.Sprintf("%d unplaced", model.unplaced))
		}
	}
	if len(model.selected) > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", len(model.selected)))
	}
	if model.blinker.Running() {
		parts = append(parts, "blinking")
	}
	if !model.refreshed.IsZero() {
		parts = append(parts, model.refreshed.Format("15:04:05"))
	}
	if model.cursor >= 0 && model.main != nil {
		if cell, present := model.main.Lookup(model.cursor); present {
			parts = append(parts, cell.Tooltip())
		}
	}
	return lipgloss.NewStyle().Foreground(model.theme.HeaderForeground).Bold(true).
		Render(strings.Join(parts, " · "))
}

func (model Model) renderStatus() string {
	switch {
	case model.searching:
		return lipgloss.NewStyle().Foreground(model.theme.SearchForeground).
			Render(fmt.Sprintf("/%s  (%d matches)", model.query, len(model.matches)))
	case model.status != "":
		color := model.theme.WarnText
		if model.statusLevel >= slog.LevelError {
			color = model.theme.ErrorText
		}
		return lipgloss.NewStyle().Foreground(color).Render(model.status)
	}
	var help []string
	for _, binding := range model.keys.helpBindings() {
		help = append(help, binding.Help().Key+" "+binding.Help().Desc)
	}
	return lipgloss.NewStyle().Foreground(model.theme.HelpText).Render(strings.Join(help, "  "))
}

// RenderOnce fetches one node list from source and renders a single
// frame without a terminal.
func RenderOnce(source Source, options Options, width int) (string, error) {
	model := NewModel(source, options)
	model.width = width
	nodes, changed, err := source.FetchNodeList()
	if err != nil {
		return "", err
	}
	model.applyFetch(nodes, changed, nil)
	if model.gridErr != nil {
		return "", model.gridErr
	}
	return strings.Join(model.clip(model.frame()), "\n") + "\n", nil
}
