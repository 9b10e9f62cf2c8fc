package scan

import "gearscan/engine"

type createSessionRequest struct {
	Operator string `json:"operator"`
}

type scanInputRequest struct {
	Input string `json:"input"`
}

type scanSubmitRequest struct {
	Code string `json:"code"`
}

type incrementRequest struct {
	Barcode string `json:"barcode"`
}

type toggleResponse struct {
	Selected bool            `json:"selected"`
	Session  engine.Snapshot `json:"session"`
}

type commitResponse struct {
	Result  engine.CommitResult `json:"result"`
	Session engine.Snapshot     `json:"session"`
}

type scanResponse struct {
	Result  engine.ScanResult `json:"result"`
	Session engine.Snapshot   `json:"session"`
}

type entryResponse struct {
	Entry   engine.SessionEntry `json:"entry"`
	Session engine.Snapshot     `json:"session"`
}
