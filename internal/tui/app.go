package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gsales/gsales/internal/activity"
	"github.com/gsales/gsales/internal/domain"
	"github.com/gsales/gsales/internal/marker"
	"github.com/gsales/gsales/internal/netmon"
	"github.com/gsales/gsales/internal/sales"
	"github.com/gsales/gsales/internal/syncer"
)

// ApplicationState represents the current input mode
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateAdding
	StateFiltering
	StateConfirmClear
)

// Tab identifies the visible view
type Tab int

const (
	TabSales Tab = iota
	TabActivity
)

// Model is the main Bubble Tea model for the application
type Model struct {
	// Services
	SalesSvc *sales.Service
	Activity *activity.Logger
	Engine   *syncer.Engine
	Monitor  *netmon.Monitor
	Marker   *marker.Marker

	ExportDir string

	// Application state
	State ApplicationState
	Tab   Tab

	// Data
	Sales    []domain.Sale
	Entries  []domain.LogEntry
	LastSync time.Time
	HasSync  bool

	// Input components
	form   saleForm
	filter textinput.Model
	query  string

	// UI state
	NetStatus   netmon.Status
	Syncing     bool
	StatusMsg   string
	StatusIsErr bool
	Width       int
	Height      int
}

// NewModel creates the application model
func NewModel(salesSvc *sales.Service, act *activity.Logger, engine *syncer.Engine, monitor *netmon.Monitor, mk *marker.Marker, exportDir string) Model {
	filter := textinput.New()
	filter.Placeholder = "filter"
	filter.CharLimit = 48
	filter.Width = 24

	m := Model{
		SalesSvc:  salesSvc,
		Activity:  act,
		Engine:    engine,
		Monitor:   monitor,
		Marker:    mk,
		ExportDir: exportDir,
		form:      newSaleForm(),
		filter:    filter,
		NetStatus: netmon.StatusUnknown,
	}
	m.LastSync, m.HasSync = mk.Get()
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		LoadSalesCmd(m.SalesSvc),
		LoadLogsCmd(m.Activity),
		ListenNetCmd(m.Monitor),
	)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SalesLoadedMsg:
		m.Sales = msg.Sales
		return m, nil

	case LogsLoadedMsg:
		m.Entries = msg.Entries
		return m, nil

	case SaleRecordedMsg:
		m.State = StateBrowsing
		m.setStatus("Recorded "+msg.Sale.Item, false)
		return m, tea.Batch(LoadSalesCmd(m.SalesSvc), LoadLogsCmd(m.Activity))

	case SyncDoneMsg:
		return m.handleSyncDone(msg)

	case ExportDoneMsg:
		m.setStatus("Exported "+msg.Path, false)
		return m, LoadLogsCmd(m.Activity)

	case LogsClearedMsg:
		m.setStatus("Activity log cleared", false)
		return m, LoadLogsCmd(m.Activity)

	case NetStatusMsg:
		m.NetStatus = msg.Status
		// Keep listening for the next transition
		return m, ListenNetCmd(m.Monitor)

	case ErrMsg:
		m.State = stateAfterError(m.State)
		m.setStatus(msg.Error(), true)
		return m, nil
	}

	return m, nil
}

// stateAfterError keeps the form open on validation failure so the input can
// be corrected, and drops back to browsing otherwise.
func stateAfterError(s ApplicationState) ApplicationState {
	if s == StateAdding {
		return StateAdding
	}
	return StateBrowsing
}

func (m Model) handleSyncDone(msg SyncDoneMsg) (tea.Model, tea.Cmd) {
	m.Syncing = false

	if msg.Err != nil {
		if errors.Is(msg.Err, domain.ErrSyncInFlight) {
			m.setStatus("Sync already in progress", false)
			return m, nil
		}
		m.setStatus("Sync error: "+msg.Err.Error(), true)
		return m, tea.Batch(LoadSalesCmd(m.SalesSvc), LoadLogsCmd(m.Activity))
	}

	m.LastSync, m.HasSync = m.Marker.Get()

	if msg.Summary.Attempted == 0 {
		if !msg.Silent {
			m.setStatus("No unsynced sales.", false)
		}
		return m, nil
	}

	if msg.Silent {
		m.setStatus("Background sync: "+msg.Summary.String(), false)
	} else {
		m.setStatus("Sync complete: "+msg.Summary.String(), false)
	}
	return m, tea.Batch(LoadSalesCmd(m.SalesSvc), LoadLogsCmd(m.Activity))
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.State {
	case StateAdding:
		return m.handleFormKey(msg)
	case StateFiltering:
		return m.handleFilterKey(msg)
	case StateConfirmClear:
		return m.handleConfirmKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "tab":
		if m.Tab == TabSales {
			m.Tab = TabActivity
		} else {
			m.Tab = TabSales
		}
		return m, nil

	case "a":
		if m.Tab == TabSales {
			m.State = StateAdding
			return m, m.form.open()
		}

	case "s":
		if m.Syncing {
			m.setStatus("Sync already in progress", false)
			return m, nil
		}
		m.Syncing = true
		m.setStatus("Syncing…", false)
		return m, SyncCmd(m.Engine, false)

	case "e":
		return m, ExportCmd(m.Activity, m.ExportDir)

	case "C":
		if m.Tab == TabActivity {
			m.State = StateConfirmClear
			return m, nil
		}

	case "/":
		m.State = StateFiltering
		m.filter.SetValue(m.query)
		return m, m.filter.Focus()

	case "esc":
		m.query = ""
		m.filter.SetValue("")
		return m, nil

	case "r":
		return m, tea.Batch(LoadSalesCmd(m.SalesSvc), LoadLogsCmd(m.Activity))
	}

	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.State = StateBrowsing
		return m, nil
	case "enter":
		item, qty, price := m.form.values()
		return m, RecordSaleCmd(m.SalesSvc, item, qty, price)
	case "tab", "down":
		return m, m.form.next()
	case "shift+tab", "up":
		return m, m.form.prev()
	case "ctrl+c":
		return m, tea.Quit
	}

	cmd := m.form.update(msg)
	return m, cmd
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.State = StateBrowsing
		m.query = ""
		m.filter.Blur()
		return m, nil
	case "enter":
		m.State = StateBrowsing
		m.query = m.filter.Value()
		m.filter.Blur()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.query = m.filter.Value()
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.State = StateBrowsing
		return m, ClearLogsCmd(m.Activity)
	case "ctrl+c":
		return m, tea.Quit
	default:
		m.State = StateBrowsing
		return m, nil
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.StatusMsg = text
	m.StatusIsErr = isErr
}
