package notification

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/nats-io/nats.go"

	"github.com/pulseai/pulsedesk/internal/domain"
	"github.com/pulseai/pulsedesk/pkg/constants"
	"github.com/pulseai/pulsedesk/pkg/email"
	"github.com/pulseai/pulsedesk/pkg/sms"
)

type fakeMailer struct {
	sent []email.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg email.Message) error {
	m.sent = append(m.sent, msg)
	return m.err
}

type smsCall struct {
	phone    string
	template string
	params   map[string]string
}

type fakeTexter struct {
	enabled bool
	calls   []smsCall
}

func (t *fakeTexter) IsEnabled() bool { return t.enabled }

func (t *fakeTexter) Templates() sms.Templates {
	return sms.Templates{Prescription: "100", Appointment: "200"}
}

func (t *fakeTexter) SendTemplate(_ context.Context, phone, templateID string, params map[string]string) error {
	t.calls = append(t.calls, smsCall{phone, templateID, params})
	return nil
}

var (
	testPatient = domain.Patient{ID: "PT-1", Name: "Emma", Email: "emma@example.com", Contact: "(415) 555-0134"}
	testRx      = domain.Prescription{
		ID: "P42", PatientID: "PT-1", Date: "2025-03-14T09:30:00Z",
		PrescriptionData: domain.PrescriptionData{Medications: "Amoxicillin", Dosage: "500mg"},
	}
	testAppt = domain.Appointment{ID: "A7", PatientID: "PT-1", Date: "2025-03-20", Time: "10:30", Type: "Check-up"}
)

func newTestService(m Mailer, tx Texter) Notifier {
	return New(m, tx, Config{
		Signature:   email.Signature{Clinician: "Dr. Sarah Miller", Practice: "PulseAI Medical Center"},
		PhoneRegion: "US",
	})
}

func TestPrescriptionIssued_EmailAndSMS(t *testing.T) {
	m := &fakeMailer{}
	tx := &fakeTexter{enabled: true}

	if err := newTestService(m, tx).PrescriptionIssued(context.Background(), testPatient, testRx); err != nil {
		t.Fatalf("PrescriptionIssued failed: %v", err)
	}

	if len(m.sent) != 1 || !strings.Contains(m.sent[0].TextBody, "Date: March 14, 2025") {
		t.Errorf("unexpected mail %+v", m.sent)
	}
	if len(tx.calls) != 1 {
		t.Fatalf("expected one sms, got %d", len(tx.calls))
	}
	if tx.calls[0].phone != "+14155550134" || tx.calls[0].template != "100" {
		t.Errorf("unexpected sms call %+v", tx.calls[0])
	}
}

func TestAppointmentBooked_SMSDisabled(t *testing.T) {
	m := &fakeMailer{}
	tx := &fakeTexter{enabled: false}

	if err := newTestService(m, tx).AppointmentBooked(context.Background(), testPatient, testAppt); err != nil {
		t.Fatalf("AppointmentBooked failed: %v", err)
	}
	if len(m.sent) != 1 || len(tx.calls) != 0 {
		t.Errorf("expected mail only, got %d mails %d sms", len(m.sent), len(tx.calls))
	}
}

func TestDisabledMailerIsSilent(t *testing.T) {
	m := &fakeMailer{err: email.ErrDisabled{}}

	if err := newTestService(m, nil).AppointmentBooked(context.Background(), testPatient, testAppt); err != nil {
		t.Errorf("disabled mailer should not be an error, got %v", err)
	}
}

func TestInvalidPhone(t *testing.T) {
	tx := &fakeTexter{enabled: true}
	p := testPatient
	p.Contact = "12"

	err := newTestService(nil, tx).AppointmentBooked(context.Background(), p, testAppt)
	if !errors.Is(err, ErrInvalidPhone) {
		t.Errorf("expected ErrInvalidPhone, got %v", err)
	}
	if len(tx.calls) != 0 {
		t.Error("sms must not be sent to an invalid number")
	}
}

func TestE164(t *testing.T) {
	tests := []struct {
		contact string
		region  string
		want    string
	}{
		{"+1 555 123 4567", "US", "+15551234567"},
		{"(415) 555-0134", "US", "+14155550134"},
		{"0912 345 6789", "IR", "+989123456789"},
	}

	for _, tt := range tests {
		got, err := E164(tt.contact, tt.region)
		if err != nil {
			t.Errorf("E164(%q): %v", tt.contact, err)
			continue
		}
		if got != tt.want {
			t.Errorf("E164(%q) = %q, want %q", tt.contact, got, tt.want)
		}
	}
}

// memConn delivers published messages synchronously to subscribers.
type memConn struct {
	mu   sync.Mutex
	subs map[string][]nats.MsgHandler
}

func (c *memConn) Publish(subj string, data []byte) error {
	c.mu.Lock()
	handlers := c.subs[subj]
	c.mu.Unlock()
	for _, h := range handlers {
		h(&nats.Msg{Subject: subj, Data: data})
	}
	return nil
}

func (c *memConn) Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subs == nil {
		c.subs = map[string][]nats.MsgHandler{}
	}
	c.subs[subj] = append(c.subs[subj], cb)
	return nil, nil
}

type recorder struct {
	mu    sync.Mutex
	rx    []domain.Prescription
	appts []domain.Appointment
}

func (r *recorder) PrescriptionIssued(_ context.Context, _ domain.Patient, rx domain.Prescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rx = append(r.rx, rx)
	return nil
}

func (r *recorder) AppointmentBooked(_ context.Context, _ domain.Patient, appt domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appts = append(r.appts, appt)
	return nil
}

func TestPublisherAndWorker(t *testing.T) {
	conn := &memConn{}
	rec := &recorder{}

	if err := StartWorker(conn, rec); err != nil {
		t.Fatalf("StartWorker failed: %v", err)
	}

	pub := NewPublisher(conn)
	if err := pub.PrescriptionIssued(context.Background(), testPatient, testRx); err != nil {
		t.Fatalf("publish prescription: %v", err)
	}
	if err := pub.AppointmentBooked(context.Background(), testPatient, testAppt); err != nil {
		t.Fatalf("publish appointment: %v", err)
	}

	if len(rec.rx) != 1 || rec.rx[0].Medications != "Amoxicillin" {
		t.Errorf("prescription not delivered: %+v", rec.rx)
	}
	if len(rec.appts) != 1 || rec.appts[0].ID != "A7" {
		t.Errorf("appointment not delivered: %+v", rec.appts)
	}

	if len(conn.subs[constants.SubjectPrescriptionIssued]) != 1 {
		t.Error("worker should subscribe once per subject")
	}
}

func TestSend_LogsAndSwallows(t *testing.T) {
	called := false
	Send(context.Background(), &recorder{}, func(n Notifier) error {
		called = true
		return errors.New("boom")
	})
	if !called {
		t.Error("notifier not invoked")
	}

	Send(context.Background(), nil, func(Notifier) error {
		t.Error("nil notifier must not be invoked")
		return nil
	})
}
