package model

import (
	"fmt"
	"strings"
	"time"
)

// -----------------------------------------------------------------------------
// Account Types
// -----------------------------------------------------------------------------

// AccountInfo is the static part of the trading account.
type AccountInfo struct {
	Name         string
	Login        string
	Currency     string
	Type         string // "demo", "real", "contest"
	Leverage     int64
	TradeAllowed bool
	LimitOrders  int64 // Max pending orders, 0 = unlimited
	MarginCall   float64
	MarginClose  float64
	Company      string
}

// AccountStatus is the dynamic part of the trading account.
type AccountStatus struct {
	Balance     float64
	Equity      float64
	Profit      float64
	Margin      float64
	MarginLevel float64
	MarginFree  float64
}

// TerminalKind identifies the terminal platform.
type TerminalKind string

const (
	TerminalMT4 TerminalKind = "MT4"
	TerminalMT5 TerminalKind = "MT5"
)

// -----------------------------------------------------------------------------
// Instrument Types
// -----------------------------------------------------------------------------

// InstrumentInfo holds trading properties of one instrument.
type InstrumentInfo struct {
	Instrument   string
	Digits       int64
	MaxLotSize   float64
	MinLotSize   float64
	LotStep      float64
	Point        float64
	TickSize     float64
	TickValue    float64
	SwapLong     float64
	SwapShort    float64
	StopLevel    int64 // Minimal SL/TP distance in points
	ContractSize float64
}

// -----------------------------------------------------------------------------
// Market Data Types
// -----------------------------------------------------------------------------

// Tick is one price update.
type Tick struct {
	Instrument string
	Date       int64 // seconds
	DateMs     int64 // milliseconds
	Ask        float64
	Bid        float64
	Last       float64
	Volume     int64
	Spread     float64 // Only set on last-tick replies
}

// Time returns the tick time with millisecond precision when available.
func (t Tick) Time() time.Time {
	if t.DateMs != 0 {
		return time.UnixMilli(t.DateMs).UTC()
	}
	return time.Unix(t.Date, 0).UTC()
}

// Bar is one OHLCV candle.
type Bar struct {
	Instrument string
	Date       int64 // bar open, seconds
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Volume     int64
}

// Time returns the bar open time.
func (b Bar) Time() time.Time {
	return time.Unix(b.Date, 0).UTC()
}

// -----------------------------------------------------------------------------
// Trading Types
// -----------------------------------------------------------------------------

// OrderType is an order or position direction as the terminal spells it.
type OrderType string

const (
	OrderBuy       OrderType = "buy"
	OrderSell      OrderType = "sell"
	OrderBuyLimit  OrderType = "buy limit"
	OrderSellLimit OrderType = "sell limit"
	OrderBuyStop   OrderType = "buy stop"
	OrderSellStop  OrderType = "sell stop"
)

var orderTypes = []OrderType{OrderBuy, OrderSell, OrderBuyLimit, OrderSellLimit, OrderBuyStop, OrderSellStop}

// ParseOrderType accepts "buy limit", "buy_limit" or "BUY-LIMIT" style names.
func ParseOrderType(s string) (OrderType, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", " ", "-", " ").Replace(norm)
	for _, ot := range orderTypes {
		if string(ot) == norm {
			return ot, nil
		}
	}
	return "", fmt.Errorf("unknown order type %q", s)
}

// Pending reports whether the order type rests in the book.
func (o OrderType) Pending() bool {
	return o != OrderBuy && o != OrderSell
}

// PendingOrder is a resting order.
type PendingOrder struct {
	Ticket      int64
	Instrument  string
	OrderType   string
	MagicNumber int64
	Volume      float64
	OpenPrice   float64
	StopLoss    float64
	TakeProfit  float64
	Comment     string
}

// Position is an open position.
type Position struct {
	Ticket       int64
	Instrument   string
	OrderTicket  int64
	PositionType string
	MagicNumber  int64
	Volume       float64
	OpenPrice    float64
	OpenTime     int64
	StopLoss     float64
	TakeProfit   float64
	Comment      string
	Profit       float64
	Swap         float64
	Commission   float64
}

// ClosedPosition is a position from account history. Window queries report the
// order type and leave OrderTicket zero; full history queries report the
// originating order ticket and the position type.
type ClosedPosition struct {
	Ticket       int64
	Instrument   string
	OrderTicket  int64
	PositionType string
	MagicNumber  int64
	Volume       float64
	OpenPrice    float64
	OpenTime     int64
	StopLoss     float64
	TakeProfit   float64
	ClosePrice   float64
	CloseTime    int64
	Comment      string
	Profit       float64
	Swap         float64
	Commission   float64
}

// DeletedOrder is a pending order removed before it was filled.
type DeletedOrder struct {
	Ticket      int64
	Instrument  string
	OrderType   string
	MagicNumber int64
	Volume      float64
	OpenPrice   float64
	OpenTime    int64
	StopLoss    float64
	TakeProfit  float64
	DeletePrice float64
	DeleteTime  int64
	Comment     string
}

// OrderRequest describes a new market or pending order.
type OrderRequest struct {
	Instrument  string // universal name
	Type        OrderType
	Volume      float64
	OpenPrice   float64 // 0 for market orders
	Slippage    int64
	MagicNumber int64
	StopLoss    float64
	TakeProfit  float64
	Comment     string
	Market      bool // instrument is a market (exchange) instrument
}

// OrderResult is the terminal's answer to a trading command.
type OrderResult struct {
	Ticket     int64  // new ticket for opened orders, -1 otherwise
	Message    string // terminal message
	OrderError string // terminal-side error number, "" when none
}
