package audit

import "fmt"

// RecordEvent represents a patient record access audit event
type RecordEvent struct {
	Username     string
	ClientIP     string
	RecordID     uint
	Operation    string // create, fetch, update, delete
	Success      bool
	ErrorMessage string
}

func (e RecordEvent) MessageID() string {
	return "record"
}

func (e RecordEvent) Message() string {
	subject := fmt.Sprintf("patient record %d", e.RecordID)
	if e.RecordID == 0 {
		subject = "a patient record"
	}
	if e.Success {
		return fmt.Sprintf("%s performed %s on %s", e.Username, e.Operation, subject)
	}
	msg := fmt.Sprintf("%s attempted %s on %s", e.Username, e.Operation, subject)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e RecordEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e RecordEvent) Facility() int {
	return FacilityAuthPriv
}

func (e RecordEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.Username,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result,
		},
	}
	if e.RecordID != 0 {
		sd[SDIDSubject] = map[string]string{
			"record": fmt.Sprintf("%d", e.RecordID),
		}
	}
	return sd
}
