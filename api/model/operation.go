package model

import "mediaconverter/operation"

type OperationResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Button   string `json:"button"`
	Accept   string `json:"accept"`
}

func NewOperationResponse(op operation.Operation) OperationResponse {
	return OperationResponse{
		ID:       op.Kind.String(),
		Title:    op.Title,
		Subtitle: op.Subtitle,
		Button:   op.Button,
		Accept:   op.Accept,
	}
}

func NewOperationList(ops []operation.Operation) []OperationResponse {
	out := make([]OperationResponse, 0, len(ops))
	for _, op := range ops {
		out = append(out, NewOperationResponse(op))
	}
	return out
}
