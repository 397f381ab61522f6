package relay

import (
	"encoding/json"
	"fmt"
	"net/url"

	"bitbucket.org/crgw/carrier-call-relay/internal/config"
	"github.com/google/go-querystring/query"
)

// Payload is the body posted to the workflow hook. Input values are copied
// verbatim, untrimmed.
type Payload struct {
	profile config.Payload

	Carrier       string
	FreightOrder  string
	ContactNumber string
}

func NewPayload(profile config.Payload, request TriggerRequest) Payload {
	return Payload{
		profile:       profile,
		Carrier:       request.CarrierName(),
		FreightOrder:  request.FreightOrder,
		ContactNumber: request.ContactNumber,
	}
}

func (p Payload) Fields() map[string]string {
	fields := map[string]string{
		"country":          p.profile.Country,
		"trafficDirection": p.profile.TrafficDirection,
		"mode":             p.profile.Mode,
		"carrier":          p.Carrier,
		"contactNumber":    p.ContactNumber,
	}

	if p.profile.Source != "" {
		fields["source"] = p.profile.Source
	}
	if p.profile.Destination != "" {
		fields["destination"] = p.profile.Destination
	}

	freightOrderKey := p.profile.FreightOrderKey
	if freightOrderKey == "" {
		freightOrderKey = "freightOrder"
	}
	fields[freightOrderKey] = p.FreightOrder

	return fields
}

func (p Payload) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Fields())
}

type trackingQuery struct {
	RunID string `url:"run_id"`
}

// TrackingURL adds run_id to the runs page URL.
func TrackingURL(base string, runID string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("tracking url: %w", err)
	}

	values, err := query.Values(trackingQuery{RunID: runID})
	if err != nil {
		return "", err
	}

	q := u.Query()
	for key, value := range values {
		q[key] = value
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
