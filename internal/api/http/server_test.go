package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"

	"github.com/pulseai/pulsedesk/config"
	"github.com/pulseai/pulsedesk/internal/api/http/middleware"
	"github.com/pulseai/pulsedesk/internal/api/http/router"
	"github.com/pulseai/pulsedesk/internal/dashboard"
	"github.com/pulseai/pulsedesk/internal/domain"
	"github.com/pulseai/pulsedesk/internal/service/appointment"
	"github.com/pulseai/pulsedesk/internal/service/conversation"
	"github.com/pulseai/pulsedesk/internal/service/notification"
	"github.com/pulseai/pulsedesk/internal/service/patient"
	"github.com/pulseai/pulsedesk/internal/service/prescription"
	"github.com/pulseai/pulsedesk/internal/service/report"
	"github.com/pulseai/pulsedesk/pkg/logservice"
	"github.com/pulseai/pulsedesk/pkg/logservice/logservicetest"
)

const seededID = "bbbbbbbb22222222bbbbbbbb"

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func seed() logservice.Conversation {
	return logservice.Conversation{
		ID: seededID,
		Chat: []logservice.ChatTurn{
			logservice.NewChatTurn("User", "I am 52 years old and my chest feels tight"),
		},
		UserInfo: &logservice.UserInfo{Name: "Liam Carter", Email: "liam@example.com", PhoneNumber: "+1 415 555 0177"},
		Report:   logservice.Report{"summary": "Chest tightness", "triage": "urgent"},
		Matches: map[string]logservice.ConditionMatch{
			"match_1": {Name: "Angina", Severity: logservice.SeverityHigh, Count: 2},
		},
	}
}

func newTestApp(t *testing.T, seeds ...logservice.Conversation) (*fiber.App, *logservicetest.Server) {
	t.Helper()
	srv := logservicetest.NewServer(seeds...)
	t.Cleanup(srv.Close)

	client := srv.Client()
	notifier := notification.New(nil, nil, notification.Config{})
	patients := patient.New(client, patient.Config{PhoneRegion: "US"})

	cfg := &config.Config{}
	cfg.Observability.ServiceName = "pulsedesk-test"

	r := router.NewRouter(router.Params{
		Cfg:             cfg,
		LogService:      client,
		Store:           dashboard.NewStore(dashboard.NewRemoteLoader(client)),
		PatientSvc:      patients,
		AppointmentSvc:  appointment.New(client, patients, notifier),
		ReportSvc:       report.New(client, patients, report.Config{}),
		PrescriptionSvc: prescription.New(client, patients, notifier, prescription.Config{}),
		ConversationSvc: conversation.New(client),
	})
	return New(cfg, r, nil, false), srv
}

func do(t *testing.T, app *fiber.App, method, path string, body any) (int, envelope) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, fiber.TestConfig{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
		}
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
	return v
}

func validPatient() patient.Input {
	return patient.Input{
		Name:    "Ava Martinez",
		Age:     29,
		Gender:  "Female",
		Contact: "+1 415 555 0101",
		Email:   "ava@example.com",
		Notes:   "Follow-up on migraines",
	}
}

func TestHealthChecks(t *testing.T) {
	app, srv := newTestApp(t)

	for _, path := range []string{healthcheck.LivenessEndpoint, healthcheck.ReadinessEndpoint, healthcheck.StartupEndpoint} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, resp.StatusCode)
		}
	}

	srv.Fail(logservicetest.OpList, 500)
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, healthcheck.ReadinessEndpoint, nil))
	if err != nil {
		t.Fatalf("readiness: %v", err)
	}
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Errorf("readiness with failing log service = %d, want 503", resp.StatusCode)
	}
}

func TestPatientLifecycle(t *testing.T) {
	app, srv := newTestApp(t, seed())

	status, env := do(t, app, fiber.MethodPost, "/api/v1/patients", validPatient())
	if status != fiber.StatusCreated {
		t.Fatalf("create = %d (%s)", status, env.Error)
	}
	created := decode[domain.Patient](t, env)
	if created.ConversationID == "" || created.ID != "PT-"+created.ConversationID[:8] {
		t.Fatalf("unexpected created patient %+v", created)
	}
	if srv.Calls(logservicetest.OpCreate) != 1 {
		t.Errorf("create calls = %d, want 1", srv.Calls(logservicetest.OpCreate))
	}

	status, env = do(t, app, fiber.MethodGet, "/api/v1/patients?q=ava", nil)
	if status != fiber.StatusOK {
		t.Fatalf("list = %d", status)
	}
	if got := decode[[]domain.Patient](t, env); len(got) != 1 || got[0].Name != "Ava Martinez" {
		t.Errorf("search result = %+v", got)
	}

	status, env = do(t, app, fiber.MethodGet, "/api/v1/patients/PT-bbbbbbbb", nil)
	if status != fiber.StatusOK {
		t.Fatalf("get = %d", status)
	}
	if got := decode[domain.Patient](t, env); got.Age != 52 || got.Name != "Liam Carter" {
		t.Errorf("projected patient = %+v", got)
	}

	in := validPatient()
	in.Name = "Ava M. Martinez"
	status, env = do(t, app, fiber.MethodPut, "/api/v1/patients/"+created.ID, in)
	if status != fiber.StatusOK {
		t.Fatalf("update = %d (%s)", status, env.Error)
	}
	conv, _ := srv.Conversation(created.ConversationID)
	if conv.UserInfo.Name != "Ava M. Martinez" {
		t.Errorf("remote name = %q", conv.UserInfo.Name)
	}

	status, _ = do(t, app, fiber.MethodDelete, "/api/v1/patients/"+created.ID, nil)
	if status != fiber.StatusNoContent {
		t.Fatalf("delete = %d", status)
	}
	status, _ = do(t, app, fiber.MethodGet, "/api/v1/patients/"+created.ID, nil)
	if status != fiber.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", status)
	}
}

func TestPatientValidation(t *testing.T) {
	app, srv := newTestApp(t)

	in := validPatient()
	in.Email = "not-an-email"
	status, env := do(t, app, fiber.MethodPost, "/api/v1/patients", in)
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if env.Error == "" {
		t.Error("expected an error message")
	}
	if srv.Calls(logservicetest.OpCreate) != 0 {
		t.Error("invalid patient reached the log service")
	}
}

func TestLinkConversation(t *testing.T) {
	named := logservice.Conversation{
		ID:       "cccccccc33333333cccccccc",
		UserInfo: &logservice.UserInfo{Name: "Noah Reyes"},
	}
	anonymous := logservice.Conversation{
		ID:   "dddddddd44444444dddddddd",
		Chat: []logservice.ChatTurn{logservice.NewChatTurn("User", "my head hurts")},
	}
	app, srv := newTestApp(t, seed(), named, anonymous)

	link := func(patientID, convID string) int {
		status, _ := do(t, app, fiber.MethodPut, "/api/v1/patients/"+patientID+"/conversation",
			map[string]string{"conversationId": convID})
		return status
	}
	if got := link("PT-bbbbbbbb", named.ID); got != fiber.StatusConflict {
		t.Errorf("relink onto named conversation = %d, want 409", got)
	}
	if got := link("PT-bbbbbbbb", anonymous.ID); got != fiber.StatusConflict {
		t.Errorf("relink onto anonymous conversation = %d, want 409", got)
	}
	if got := link("PT-bbbbbbbb", seededID); got != fiber.StatusOK {
		t.Errorf("link onto own conversation = %d, want 200", got)
	}
	status, _ := do(t, app, fiber.MethodPut, "/api/v1/patients/PT-bbbbbbbb/conversation", map[string]string{})
	if status != fiber.StatusBadRequest {
		t.Errorf("link without id = %d, want 400", status)
	}
	if srv.Calls(logservicetest.OpUpdate) != 0 {
		t.Error("refused links must not write")
	}

	_, env := do(t, app, fiber.MethodGet, "/api/v1/conversations/candidates", nil)
	if got := decode[[]logservice.Conversation](t, env); len(got) != 1 || got[0].ID != anonymous.ID {
		t.Fatalf("candidates = %+v, want only the anonymous conversation", got)
	}

	status, env = do(t, app, fiber.MethodPost, "/api/v1/conversations/"+anonymous.ID+"/patient", validPatient())
	if status != fiber.StatusCreated {
		t.Fatalf("claim = %d (%s)", status, env.Error)
	}
	if got := decode[domain.Patient](t, env); got.ID != "PT-dddddddd" || got.ConversationID != anonymous.ID {
		t.Errorf("claimed patient = %+v", got)
	}
	if srv.Calls(logservicetest.OpCreate) != 0 {
		t.Error("claim must reuse the conversation")
	}

	status, _ = do(t, app, fiber.MethodPost, "/api/v1/conversations/"+named.ID+"/patient", validPatient())
	if status != fiber.StatusConflict {
		t.Errorf("claim of named conversation = %d, want 409", status)
	}
	status, _ = do(t, app, fiber.MethodPost, "/api/v1/conversations/missing/patient", validPatient())
	if status != fiber.StatusNotFound {
		t.Errorf("claim of missing conversation = %d, want 404", status)
	}

	_, env = do(t, app, fiber.MethodGet, "/api/v1/patients", nil)
	names := map[string]int{}
	for _, p := range decode[[]domain.Patient](t, env) {
		names[p.Name]++
	}
	if len(names) != 3 || names["Liam Carter"] != 1 || names["Noah Reyes"] != 1 || names["Ava Martinez"] != 1 {
		t.Errorf("patients after linking = %v", names)
	}

	_, env = do(t, app, fiber.MethodGet, "/api/v1/conversations/candidates", nil)
	if got := decode[[]logservice.Conversation](t, env); len(got) != 0 {
		t.Errorf("candidates after claim = %d, want 0", len(got))
	}
}

func TestAppointments(t *testing.T) {
	app, srv := newTestApp(t, seed())

	tests := []struct {
		name   string
		path   string
		body   appointment.BookRequest
		status int
	}{
		{"booked", "/api/v1/patients/PT-bbbbbbbb/appointments", appointment.BookRequest{Date: "2025-05-02", Time: "09:15", Type: "Consultation"}, fiber.StatusCreated},
		{"bad date", "/api/v1/patients/PT-bbbbbbbb/appointments", appointment.BookRequest{Date: "05/02/2025", Time: "09:15", Type: "Consultation"}, fiber.StatusBadRequest},
		{"missing type", "/api/v1/patients/PT-bbbbbbbb/appointments", appointment.BookRequest{Date: "2025-05-02", Time: "09:15"}, fiber.StatusBadRequest},
		{"unknown patient", "/api/v1/patients/PT-00000000/appointments", appointment.BookRequest{Date: "2025-05-02", Time: "09:15", Type: "Consultation"}, fiber.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, app, fiber.MethodPost, tt.path, tt.body)
			if status != tt.status {
				t.Errorf("status = %d, want %d (%s)", status, tt.status, env.Error)
			}
		})
	}
	if srv.Calls(logservicetest.OpUpdate) != 1 {
		t.Errorf("update calls = %d, want 1", srv.Calls(logservicetest.OpUpdate))
	}

	_, env := do(t, app, fiber.MethodGet, "/api/v1/appointments?status=Pending", nil)
	if got := decode[[]domain.Appointment](t, env); len(got) != 1 || got[0].Time != "09:15" {
		t.Errorf("pending appointments = %+v", got)
	}
	_, env = do(t, app, fiber.MethodGet, "/api/v1/appointments?status=Confirmed", nil)
	if got := decode[[]domain.Appointment](t, env); len(got) != 0 {
		t.Errorf("confirmed appointments = %+v", got)
	}
	_, env = do(t, app, fiber.MethodGet, "/api/v1/patients/PT-bbbbbbbb/appointments", nil)
	if got := decode[[]domain.Appointment](t, env); len(got) != 1 {
		t.Errorf("patient appointments = %+v", got)
	}
}

func TestReportsAndPrescriptions(t *testing.T) {
	app, srv := newTestApp(t, seed())

	status, env := do(t, app, fiber.MethodPost, "/api/v1/patients/PT-bbbbbbbb/reports", map[string]string{"content": "ECG normal"})
	if status != fiber.StatusCreated {
		t.Fatalf("save report = %d (%s)", status, env.Error)
	}
	status, _ = do(t, app, fiber.MethodPost, "/api/v1/patients/PT-bbbbbbbb/reports", map[string]string{"content": ""})
	if status != fiber.StatusBadRequest {
		t.Errorf("empty report = %d, want 400", status)
	}
	_, env = do(t, app, fiber.MethodGet, "/api/v1/patients/PT-bbbbbbbb/reports", nil)
	if got := decode[[]domain.PatientReport](t, env); len(got) != 1 || got[0].Content != "ECG normal" {
		t.Errorf("reports = %+v", got)
	}

	rx := domain.PrescriptionData{Medications: "Nitroglycerin", Dosage: "0.4mg as needed"}
	status, env = do(t, app, fiber.MethodPost, "/api/v1/patients/PT-bbbbbbbb/prescriptions", rx)
	if status != fiber.StatusCreated {
		t.Fatalf("issue = %d (%s)", status, env.Error)
	}
	status, _ = do(t, app, fiber.MethodPost, "/api/v1/patients/PT-bbbbbbbb/prescriptions", domain.PrescriptionData{})
	if status != fiber.StatusBadRequest {
		t.Errorf("empty prescription = %d, want 400", status)
	}
	_, env = do(t, app, fiber.MethodGet, "/api/v1/patients/PT-bbbbbbbb/prescriptions", nil)
	if got := decode[[]domain.Prescription](t, env); len(got) != 1 || got[0].Medications != "Nitroglycerin" {
		t.Errorf("prescriptions = %+v", got)
	}

	conv, _ := srv.Conversation(seededID)
	if conv.Report["triage"] != "urgent" {
		t.Errorf("unknown report key lost: %v", conv.Report)
	}
	if srv.Len() != 1 {
		t.Errorf("conversations = %d, want 1", srv.Len())
	}
}

func TestConversations(t *testing.T) {
	app, _ := newTestApp(t, seed())

	_, env := do(t, app, fiber.MethodGet, "/api/v1/conversations?q=CHEST", nil)
	if got := decode[[]logservice.Conversation](t, env); len(got) != 1 {
		t.Errorf("browse = %d conversations, want 1", len(got))
	}
	_, env = do(t, app, fiber.MethodGet, "/api/v1/conversations?q=nobody", nil)
	if got := decode[[]logservice.Conversation](t, env); len(got) != 0 {
		t.Errorf("browse miss = %d conversations, want 0", len(got))
	}

	status, _ := do(t, app, fiber.MethodGet, "/api/v1/conversations/"+seededID, nil)
	if status != fiber.StatusOK {
		t.Errorf("get = %d", status)
	}
	status, _ = do(t, app, fiber.MethodGet, "/api/v1/conversations/unknown", nil)
	if status != fiber.StatusNotFound {
		t.Errorf("get unknown = %d, want 404", status)
	}
}

func TestDashboard(t *testing.T) {
	app, srv := newTestApp(t, seed())

	status, env := do(t, app, fiber.MethodGet, "/api/v1/dashboard", nil)
	if status != fiber.StatusOK {
		t.Fatalf("dashboard = %d (%s)", status, env.Error)
	}
	view := decode[dashboard.View](t, env)
	if view.Stats.TotalPatients != 1 || view.Stats.CriticalPatients != 1 {
		t.Errorf("stats = %+v", view.Stats)
	}

	do(t, app, fiber.MethodPost, "/api/v1/patients/PT-bbbbbbbb/appointments",
		appointment.BookRequest{Date: "2025-05-02", Time: "11:00", Type: "Follow-up"})

	_, env = do(t, app, fiber.MethodGet, "/api/v1/dashboard?status=Pending&q=liam", nil)
	view = decode[dashboard.View](t, env)
	if view.ActiveFilter != domain.AppointmentPending || view.SearchTerm != "liam" {
		t.Errorf("view settings = %q/%q", view.ActiveFilter, view.SearchTerm)
	}
	if len(view.Appointments) != 1 || view.Stats.PendingAppointments != 1 {
		t.Errorf("appointments = %+v", view.Appointments)
	}
	if len(view.Patients) != 1 || view.Patients[0].NextAppointment != "2025-05-02" {
		t.Errorf("patients = %+v", view.Patients)
	}

	status, _ = do(t, app, fiber.MethodPost, "/api/v1/dashboard/refresh", nil)
	if status != fiber.StatusOK {
		t.Errorf("refresh = %d", status)
	}

	srv.Fail(logservicetest.OpList, 500)
	status, _ = do(t, app, fiber.MethodPost, "/api/v1/dashboard/refresh", nil)
	if status != fiber.StatusBadGateway {
		t.Errorf("refresh with failing log service = %d, want 502", status)
	}
}

func TestRemoteFailureIsBadGateway(t *testing.T) {
	app, srv := newTestApp(t, seed())
	srv.Fail(logservicetest.OpList, 500)

	status, env := do(t, app, fiber.MethodGet, "/api/v1/patients", nil)
	if status != fiber.StatusBadGateway {
		t.Errorf("status = %d, want 502", status)
	}
	if env.Error == "" {
		t.Error("expected an error message")
	}
}

func TestRequestIDForwarded(t *testing.T) {
	app, srv := newTestApp(t, seed())

	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/patients", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-7f3a")
	resp, err := app.Test(req, fiber.TestConfig{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if got := resp.Header.Get(middleware.HeaderRequestID); got != "req-7f3a" {
		t.Errorf("response request id = %q", got)
	}
	if got := srv.LastRequestID(); got != "req-7f3a" {
		t.Errorf("forwarded request id = %q", got)
	}
}

func TestAccessLogIncludesRequestID(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(middleware.RequestID())
	app.Use(accessLogger(&buf))
	app.Get("/", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(middleware.HeaderRequestID, "trace-me-42")
	if _, err := app.Test(req); err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	if line := buf.String(); !strings.Contains(line, "[req_id=trace-me-42]") {
		t.Errorf("access log line = %q", line)
	}
}
