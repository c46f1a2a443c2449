package kis

import "time"

// ============================================================
// Order Types
// ============================================================

// OrderSide represents buy or sell
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// OrderType represents order type
type OrderType string

const (
	OrderTypeLimit  OrderType = "limit"  // 지정가
	OrderTypeMarket OrderType = "market" // 시장가
)

// PlaceOrderRequest represents a request to place a cash order
type PlaceOrderRequest struct {
	StockCode string    `json:"stock_code"`
	Side      OrderSide `json:"side"`
	Type      OrderType `json:"type"`
	Quantity  int64     `json:"quantity"`
	Price     float64   `json:"price"` // 0 for market orders
}

// PlaceOrderResult is the broker's acknowledgment of an order. Callers
// treat it as opaque confirmation and attach it to their own records.
type PlaceOrderResult struct {
	Success   bool   `json:"success"`
	OrderNo   string `json:"order_no"`
	OrderTime string `json:"order_time"`
	Message   string `json:"message"`
	Mock      bool   `json:"mock,omitempty"`
}

// TokenInfo carries an issued access token and its expiry.
type TokenInfo struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// OHLCV is one daily price bar.
type OHLCV struct {
	Date   string  `json:"date"` // YYYYMMDD
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// ============================================================
// KIS API Response Types (Internal)
// ============================================================

// tokenResponse represents the OAuth token response
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// dailyPriceResponse represents the inquire-daily-price response
type dailyPriceResponse struct {
	RtCd    string `json:"rt_cd"`
	MsgCd   string `json:"msg_cd"`
	Msg1    string `json:"msg1"`
	Output2 []struct {
		Date   string `json:"stck_bsop_date"`
		Open   string `json:"stck_oprc"`
		High   string `json:"stck_hgpr"`
		Low    string `json:"stck_lwpr"`
		Close  string `json:"stck_clpr"`
		Volume string `json:"acml_vol"`
	} `json:"output2"`
}

// placeOrderRequestBody represents the KIS place order request body
type placeOrderRequestBody struct {
	CANO         string `json:"CANO"`         // 계좌번호
	ACNT_PRDT_CD string `json:"ACNT_PRDT_CD"` // 계좌상품코드
	PDNO         string `json:"PDNO"`         // 종목코드
	ORD_DVSN     string `json:"ORD_DVSN"`     // 00:지정가, 01:시장가
	ORD_QTY      string `json:"ORD_QTY"`      // 주문수량
	ORD_UNPR     string `json:"ORD_UNPR"`     // 주문단가
}

// placeOrderResponse represents the KIS place order response
type placeOrderResponse struct {
	RtCd   string `json:"rt_cd"`
	MsgCd  string `json:"msg_cd"`
	Msg1   string `json:"msg1"`
	Output struct {
		KRXFwdgOrdOrgno string `json:"KRX_FWDG_ORD_ORGNO"`
		ODNO            string `json:"ODNO"`    // 주문번호
		ORDTmd          string `json:"ORD_TMD"` // 주문시각
	} `json:"output"`
}

// hashkeyResponse represents the KIS hashkey response
type hashkeyResponse struct {
	Hash string `json:"HASH"`
}
