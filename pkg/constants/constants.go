package constants

const (
	AppName = "pulsedesk"

	ConfigName   = "config"
	ConfigFormat = "yaml"

	// EnvPrefix is prepended to every env override, e.g. PULSEDESK_LOG_SERVICE_BASE_URL.
	EnvPrefix = "PULSEDESK"

	DefaultLogServiceURL  = "http://localhost:5000"
	DefaultClinician      = "Dr. Sarah Miller"
	DefaultClinicianTitle = "General Practitioner"
	DefaultPractice       = "PulseAI Medical Center"
	DefaultPhoneRegion    = "US"

	AvatarBaseURL = "https://avatars.dicebear.com/api/personas/"

	// NATS subjects for patient notifications.
	SubjectPrescriptionIssued = "pulsedesk.prescription.issued"
	SubjectAppointmentBooked  = "pulsedesk.appointment.booked"
)
