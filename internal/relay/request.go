package relay

import (
	"encoding/json"
	"strings"
)

// TriggerRequest is the inbound call request, bound from a form or JSON body.
type TriggerRequest struct {
	ContactNumber  string `form:"contactNumber" json:"contactNumber"`
	Carrier        string `form:"carrier" json:"carrier"`
	CarrierContact string `form:"carrierContact" json:"carrierContact"`
	FreightOrder   string `form:"freightOrder" json:"freightOrder"`
}

// CarrierName prefers carrierContact, the field the HTML form posts.
func (r TriggerRequest) CarrierName() string {
	if strings.TrimSpace(r.CarrierContact) != "" {
		return r.CarrierContact
	}
	return r.Carrier
}

type runsBody struct {
	QueuedRunIDs []json.RawMessage `json:"queued_run_ids"`
}

// firstRunID extracts queued_run_ids[0] from the hook response. Ids may come
// as strings or numbers.
func firstRunID(body json.RawMessage) (string, bool) {
	var runs runsBody
	if err := json.Unmarshal(body, &runs); err != nil || len(runs.QueuedRunIDs) == 0 {
		return "", false
	}

	first := runs.QueuedRunIDs[0]

	var id string
	if err := json.Unmarshal(first, &id); err != nil {
		id = string(first)
	}

	if id == "" || id == "null" {
		return "", false
	}

	return id, true
}
