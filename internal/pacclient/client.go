// Package pacclient calls the PAC Service on behalf of the Invoice Service.
package pacclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/facturacion/internal/invoice"
)

type cancelRequest struct {
	UUID            string  `json:"uuid"`
	Motivo          string  `json:"motivo"`
	RFCEmisor       string  `json:"rfcEmisor"`
	RFCReceptor     string  `json:"rfcReceptor"`
	Total           float64 `json:"total"`
	Tipo            string  `json:"tipo"`
	FechaFactura    string  `json:"fechaFactura"`
	PublicoGeneral  bool    `json:"publicoGeneral"`
	TieneRelaciones bool    `json:"tieneRelaciones"`
	UUIDSustituto   string  `json:"uuidSustituto,omitempty"`
}

type response struct {
	OK        bool    `json:"ok"`
	Status    string  `json:"status"`
	ReceiptID *string `json:"receiptId"`
	Message   *string `json:"message"`
}

func (r response) toPAC() *invoice.PACResponse {
	out := &invoice.PACResponse{OK: r.OK, Status: r.Status}
	if r.ReceiptID != nil {
		out.ReceiptID = *r.ReceiptID
	}

	if r.Message != nil {
		out.Message = *r.Message
	}

	return out
}

type Client struct {
	baseURL string
	client  *http.Client
}

// New returns a client for the PAC API rooted at baseURL, e.g.
// http://localhost:8085/api/pac.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) RequestCancellation(ctx context.Context, req invoice.PACRequest) (*invoice.PACResponse, error) {
	body, err := json.Marshal(cancelRequest{
		UUID:            req.UUID,
		Motivo:          req.Motivo,
		RFCEmisor:       req.RFCEmisor,
		RFCReceptor:     req.RFCReceptor,
		Total:           req.Total,
		Tipo:            req.Tipo,
		FechaFactura:    req.FechaFactura.UTC().Format(time.RFC3339),
		PublicoGeneral:  req.PublicoGeneral,
		TieneRelaciones: req.TieneRelaciones,
		UUIDSustituto:   req.UUIDSustituto,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding cancel request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cancel", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	return c.do(httpReq)
}

func (c *Client) Status(ctx context.Context, uuid string) (*invoice.PACResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status/"+url.PathEscape(uuid), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	return c.do(httpReq)
}

func (c *Client) do(req *http.Request) (*invoice.PACResponse, error) {
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", invoice.ErrPACUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && req.Method == http.MethodGet {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: no cancellation request at %s", invoice.ErrNotFound, req.URL.Path)
	}

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d for %s", invoice.ErrPACUnavailable, resp.StatusCode, req.URL.Path)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", invoice.ErrPACUnavailable, err)
	}

	return body.toPAC(), nil
}
