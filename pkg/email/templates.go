package email

import (
	"fmt"
	"html"
)

// Signature identifies the clinician sending patient mail.
type Signature struct {
	Clinician string
	Title     string
	Practice  string
}

// PrescriptionEmailData contains the data needed for the prescription email.
type PrescriptionEmailData struct {
	PatientName  string
	Email        string
	Date         string
	Medications  string
	Dosage       string
	Instructions string
	Notes        string
	Signature    Signature
}

// BuildPrescriptionEmail creates the message sent to a patient when a
// prescription is issued.
func BuildPrescriptionEmail(data PrescriptionEmailData) Message {
	name := data.PatientName
	if name == "" {
		name = "there"
	}

	subject := fmt.Sprintf("Your Prescription from %s", data.Signature.Clinician)

	textBody := fmt.Sprintf(`Dear %s,

Please find your prescription details below.

Date: %s

Medications: %s
Dosage: %s
Instructions: %s

Additional Notes: %s

Best regards,
%s
%s`,
		name, data.Date, data.Medications, data.Dosage, data.Instructions, data.Notes,
		data.Signature.Clinician, data.Signature.Practice)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Dear %s,</h2>
    <p>Please find your prescription details below.</p>
    <p style="color: #6b7280;">Date: %s</p>
    <table style="border-collapse: collapse; margin: 20px 0;">
        <tr><td style="padding: 4px 12px 4px 0;"><strong>Medications</strong></td><td>%s</td></tr>
        <tr><td style="padding: 4px 12px 4px 0;"><strong>Dosage</strong></td><td>%s</td></tr>
        <tr><td style="padding: 4px 12px 4px 0;"><strong>Instructions</strong></td><td>%s</td></tr>
    </table>
    <p style="background-color: #f3f4f6; padding: 10px 15px; border-radius: 4px;">%s</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Best regards,<br>%s<br>%s<br>%s</p>
</body>
</html>`,
		html.EscapeString(name), html.EscapeString(data.Date),
		html.EscapeString(data.Medications), html.EscapeString(data.Dosage), html.EscapeString(data.Instructions),
		html.EscapeString(data.Notes),
		html.EscapeString(data.Signature.Clinician), html.EscapeString(data.Signature.Title), html.EscapeString(data.Signature.Practice))

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// AppointmentEmailData contains the data needed for the booking confirmation.
type AppointmentEmailData struct {
	PatientName string
	Email       string
	Date        string
	Time        string
	Type        string
	Signature   Signature
}

// BuildAppointmentEmail creates the booking confirmation sent to a patient.
func BuildAppointmentEmail(data AppointmentEmailData) Message {
	name := data.PatientName
	if name == "" {
		name = "there"
	}

	subject := fmt.Sprintf("Appointment booked for %s at %s", data.Date, data.Time)

	textBody := fmt.Sprintf(`Dear %s,

Your %s appointment with %s is booked for %s at %s.

If you need to reschedule, please contact %s.

Best regards,
%s`,
		name, data.Type, data.Signature.Clinician, data.Date, data.Time,
		data.Signature.Practice, data.Signature.Practice)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Dear %s,</h2>
    <p>Your <strong>%s</strong> appointment with %s is booked.</p>
    <p style="background-color: #f3f4f6; padding: 10px 15px; border-radius: 4px; font-size: 16px;">%s at %s</p>
    <p style="color: #6b7280; font-size: 14px;">If you need to reschedule, please contact %s.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Best regards,<br>%s</p>
</body>
</html>`,
		html.EscapeString(name), html.EscapeString(data.Type), html.EscapeString(data.Signature.Clinician),
		html.EscapeString(data.Date), html.EscapeString(data.Time),
		html.EscapeString(data.Signature.Practice), html.EscapeString(data.Signature.Practice))

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}
