package handlers

import (
	"context"
	"net/http"

	"printsync/internal/client"
	"printsync/internal/models"
	"printsync/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockMonitor struct {
	status     client.Status
	chart      []models.ChartPoint
	console    []models.ConsoleEntry
	macros     []models.Macro
	gcodeErr   error
	lastScript string
	lastLimit  int
	gcodeCalls int
}

func (m *mockMonitor) Snapshot() client.Status { return m.status }

func (m *mockMonitor) Chart() []models.ChartPoint { return m.chart }

func (m *mockMonitor) Console(limit int) []models.ConsoleEntry {
	m.lastLimit = limit
	return m.console
}

func (m *mockMonitor) Macros() []models.Macro { return m.macros }

func (m *mockMonitor) SendGcode(script string) error {
	m.gcodeCalls++
	m.lastScript = script
	return m.gcodeErr
}

type mockArchive struct {
	entries    []models.ConsoleEntry
	points     []models.ChartPoint
	consoleErr error
	sampleErr  error
	lastFilter service.HistoryFilter
}

func (m *mockArchive) ConsoleHistory(ctx context.Context, f service.HistoryFilter) ([]models.ConsoleEntry, error) {
	m.lastFilter = f
	return m.entries, m.consoleErr
}
func (m *mockArchive) SampleHistory(ctx context.Context, f service.HistoryFilter) ([]models.ChartPoint, error) {
	m.lastFilter = f
	return m.points, m.sampleErr
}

type mockPeripherals struct {
	devices map[string]string
	roots   []string
}

func (m *mockPeripherals) PowerDevices() map[string]string { return m.devices }

func (m *mockPeripherals) RootDirectories() []string { return m.roots }

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
