package gateway

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

	"github.com/activegames/reservation/internal/core/domain"
)

// Backend is the HTTP JSON client for the booking backend's same-origin
// endpoints: venue catalog, deposit quoting, order creation, abandonment
// markers, deposit capture, and terms content.
type Backend struct {
	baseURL string
	client  *http.Client
}

func NewBackend(baseURL string, client *http.Client) *Backend {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	return &Backend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (b *Backend) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("backend returned %d for %s", resp.StatusCode, path)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", path, err)
		}
	}

	return nil
}

type venueListResponse struct {
	Success  bool           `json:"success"`
	Branches []domain.Venue `json:"branches"`
	Error    string         `json:"error"`
}

func (b *Backend) List(ctx context.Context) ([]domain.Venue, error) {
	var resp venueListResponse
	if err := b.do(ctx, http.MethodGet, "/api/public/branches", nil, &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, fmt.Errorf("venue catalog request failed: %s", resp.Error)
	}

	return resp.Branches, nil
}

func wireOrderType(t domain.ActivityType) string {
	if t == domain.ActivityEvent {
		return "EVENT"
	}

	return "GAME"
}

func wireArea(a domain.Area) string {
	switch a {
	case domain.AreaLaser:
		return "LASER"
	case domain.AreaMixed:
		// The backend prices MIX natively as the laser+active bundle.
		return "MIX"
	}

	return "ACTIVE"
}

type quoteRequest struct {
	BranchID          string `json:"branch_id"`
	OrderType         string `json:"order_type"`
	ParticipantsCount int    `json:"participants_count"`
	GameArea          string `json:"game_area,omitempty"`
	NumberOfGames     int    `json:"number_of_games,omitempty"`
	GameMinutes       int    `json:"game_minutes,omitempty"`
	EventType         string `json:"event_type,omitempty"`
	Locale            string `json:"locale"`
}

type quoteResponse struct {
	Success bool `json:"success"`
	Deposit *struct {
		Amount      int     `json:"amount"`
		Total       float64 `json:"total"`
		UnitPrice   float64 `json:"unitPrice"`
		RoomPrice   float64 `json:"roomPrice"`
		RoomName    string  `json:"roomName"`
		Breakdown   string  `json:"breakdown"`
		Explanation string  `json:"explanation"`
	} `json:"deposit"`
	Error string `json:"error"`
}

func (b *Backend) Quote(ctx context.Context, input domain.QuoteInput) (*domain.DepositQuote, error) {
	req := quoteRequest{
		BranchID:          input.VenueID,
		OrderType:         wireOrderType(input.Type),
		ParticipantsCount: input.Participants,
		EventType:         string(input.EventSubType),
		Locale:            input.Locale,
	}

	if input.Area != "" {
		req.GameArea = wireArea(input.Area)
	}

	// The quantity dimension depends on the area: minutes for the
	// active zone, round count otherwise.
	if input.Area == domain.AreaActive {
		req.GameMinutes = input.Quantity
	} else {
		req.NumberOfGames = input.Quantity
	}

	var resp quoteResponse
	if err := b.do(ctx, http.MethodPost, "/api/public/calculate-deposit", req, &resp); err != nil {
		return nil, err
	}

	if !resp.Success || resp.Deposit == nil {
		return nil, fmt.Errorf("deposit quote failed: %s", resp.Error)
	}

	return &domain.DepositQuote{
		Amount:      resp.Deposit.Amount,
		Total:       resp.Deposit.Total,
		UnitPrice:   resp.Deposit.UnitPrice,
		RoomPrice:   resp.Deposit.RoomPrice,
		RoomName:    resp.Deposit.RoomName,
		Breakdown:   resp.Deposit.Breakdown,
		Explanation: resp.Deposit.Explanation,
	}, nil
}

type orderRequest struct {
	BranchID          string `json:"branch_id"`
	OrderType         string `json:"order_type"`
	RequestedDate     string `json:"requested_date"`
	RequestedTime     string `json:"requested_time"`
	ParticipantsCount int    `json:"participants_count"`
	GameArea          string `json:"game_area,omitempty"`
	NumberOfGames     int    `json:"number_of_games,omitempty"`
	GameMinutes       int    `json:"game_minutes,omitempty"`
	EventType         string `json:"event_type,omitempty"`
	EventAge          *int   `json:"event_age,omitempty"`
	FirstName         string `json:"customer_first_name"`
	LastName          string `json:"customer_last_name,omitempty"`
	Phone             string `json:"customer_phone"`
	Email             string `json:"customer_email,omitempty"`
	Notes             string `json:"customer_notes,omitempty"`
	TermsAccepted     bool   `json:"terms_accepted"`
	Source            string `json:"source"`
}

type orderResponse struct {
	Success   bool   `json:"success"`
	OrderID   string `json:"order_id"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	Error     string `json:"error"`
}

func buildOrderRequest(sub domain.OrderSubmission, termsAccepted bool) orderRequest {
	req := orderRequest{
		BranchID:          sub.VenueID,
		OrderType:         wireOrderType(sub.Type),
		RequestedDate:     sub.Date,
		RequestedTime:     sub.Time,
		ParticipantsCount: sub.Participants,
		EventType:         string(sub.EventSubType),
		EventAge:          sub.CelebrantAge,
		FirstName:         sub.FirstName,
		LastName:          sub.LastName,
		Phone:             sub.Phone,
		Email:             sub.Email,
		Notes:             sub.Note,
		TermsAccepted:     termsAccepted,
		Source:            sub.Source,
	}

	if sub.Area != "" {
		req.GameArea = wireArea(sub.Area)
	}

	if sub.Area == domain.AreaActive {
		req.GameMinutes = sub.Quantity
	} else {
		req.NumberOfGames = sub.Quantity
	}

	return req
}

func (b *Backend) CreateOrder(ctx context.Context, sub domain.OrderSubmission) (*domain.OrderResult, error) {
	var resp orderResponse
	if err := b.do(ctx, http.MethodPost, "/api/orders", buildOrderRequest(sub, true), &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, fmt.Errorf("order rejected: %s", resp.Error)
	}

	return &domain.OrderResult{
		OrderID:   resp.OrderID,
		Reference: resp.Reference,
		Status:    domain.OrderStatus(resp.Status),
		Message:   resp.Message,
	}, nil
}

func (b *Backend) CreateAbortedMarker(ctx context.Context, sub domain.OrderSubmission) (string, error) {
	var resp orderResponse
	if err := b.do(ctx, http.MethodPost, "/api/orders/aborted", buildOrderRequest(sub, false), &resp); err != nil {
		return "", err
	}

	if !resp.Success {
		return "", fmt.Errorf("aborted marker rejected: %s", resp.Error)
	}

	return resp.OrderID, nil
}

type captureRequest struct {
	OrderID  string          `json:"order_id"`
	Amount   int             `json:"amount"`
	CardInfo captureCardInfo `json:"card_info"`
}

type captureCardInfo struct {
	Number     string `json:"cc_number"`
	Validity   string `json:"cc_validity"`
	CVV        string `json:"cc_cvv"`
	HolderID   string `json:"cc_holder_id"`
	HolderName string `json:"cc_holder_name,omitempty"`
}

type captureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (b *Backend) CaptureDeposit(ctx context.Context, orderID string, amount int, card domain.CardInput) error {
	req := captureRequest{
		OrderID: orderID,
		Amount:  amount,
		CardInfo: captureCardInfo{
			Number:     card.Number,
			Validity:   card.Expiry,
			CVV:        card.CVV,
			HolderID:   card.HolderID,
			HolderName: card.HolderName,
		},
	}

	var resp captureResponse
	if err := b.do(ctx, http.MethodPost, "/api/public/pay-deposit", req, &resp); err != nil {
		return err
	}

	if !resp.Success {
		return fmt.Errorf("capture declined: %s", resp.Error)
	}

	return nil
}

type termsResponse struct {
	Game  string `json:"game"`
	Event string `json:"event"`
}

func (b *Backend) Fetch(ctx context.Context, locale string) (*domain.TermsContent, error) {
	var resp termsResponse
	path := "/api/public/terms?lang=" + url.QueryEscape(locale)

	if err := b.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	return &domain.TermsContent{Game: resp.Game, Event: resp.Event}, nil
}
