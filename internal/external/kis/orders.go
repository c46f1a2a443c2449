package kis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// TR IDs for order operations
const (
	// 매수
	TRIDBuyReal    = "TTTC0802U"
	TRIDBuyVirtual = "VTTC0802U"

	// 매도
	TRIDSellReal    = "TTTC0801U"
	TRIDSellVirtual = "VTTC0801U"
)

// PlaceOrder places a cash order. The result is the broker's acknowledgment;
// a Success=false result is returned without error so callers can decide how
// to surface a rejected order.
func (c *Client) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	if c.cfg.Mock {
		return c.mockPlaceOrder(req), nil
	}

	path := "/uapi/domestic-stock/v1/trading/order-cash"

	// Determine TR ID
	var trID string
	if req.Side == OrderSideBuy {
		trID = TRIDBuyReal
		if c.cfg.IsVirtual {
			trID = TRIDBuyVirtual
		}
	} else {
		trID = TRIDSellReal
		if c.cfg.IsVirtual {
			trID = TRIDSellVirtual
		}
	}

	accountNo := c.cfg.AccountNo
	if len(accountNo) < 10 {
		return nil, fmt.Errorf("account number %q too short", accountNo)
	}
	cano := accountNo[:8]
	acntPrdtCd := accountNo[8:10]

	// Order division code: 00=지정가, 01=시장가
	ordDvsn := "00"
	ordUnpr := strconv.FormatFloat(req.Price, 'f', -1, 64)
	if req.Type == OrderTypeMarket {
		ordDvsn = "01"
		ordUnpr = "0" // 시장가는 단가 0
	}

	body := placeOrderRequestBody{
		CANO:         cano,
		ACNT_PRDT_CD: acntPrdtCd,
		PDNO:         req.StockCode,
		ORD_DVSN:     ordDvsn,
		ORD_QTY:      fmt.Sprintf("%d", req.Quantity),
		ORD_UNPR:     ordUnpr,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal order body: %w", err)
	}

	// Get hashkey for POST request
	hashkey, err := c.getHashkey(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("get hashkey: %w", err)
	}

	resp, err := c.requestWithHashkey(ctx, http.MethodPost, path, trID, hashkey, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("place order request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("place order API error status %d: %s", resp.StatusCode, string(respBody))
	}

	var result placeOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode place order response: %w", err)
	}

	orderResult := &PlaceOrderResult{
		Success:   result.RtCd == "0",
		OrderNo:   result.Output.ODNO,
		OrderTime: result.Output.ORDTmd,
		Message:   result.Msg1,
	}

	if !orderResult.Success {
		c.logger.WithFields(map[string]interface{}{
			"stock_code": req.StockCode,
			"side":       req.Side,
			"error":      result.Msg1,
		}).Error("Order placement failed")
	} else {
		c.logger.WithFields(map[string]interface{}{
			"stock_code": req.StockCode,
			"side":       req.Side,
			"order_no":   orderResult.OrderNo,
			"quantity":   req.Quantity,
			"price":      req.Price,
		}).Info("Order placed successfully")
	}

	return orderResult, nil
}

// mockPlaceOrder echoes the order back as an accepted fill without touching
// the network.
func (c *Client) mockPlaceOrder(req PlaceOrderRequest) *PlaceOrderResult {
	now := time.Now()
	return &PlaceOrderResult{
		Success:   true,
		OrderNo:   fmt.Sprintf("MOCK%s", now.Format("150405")),
		OrderTime: now.Format("150405"),
		Message:   fmt.Sprintf("모의 주문 접수: %s %s %d주", req.StockCode, req.Side, req.Quantity),
		Mock:      true,
	}
}

// getHashkey generates hashkey for POST requests
func (c *Client) getHashkey(ctx context.Context, body interface{}) (string, error) {
	path := "/uapi/hashkey"

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	token, _, err := c.getToken(ctx)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s%s", c.cfg.BaseURL, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("authorization", fmt.Sprintf("Bearer %s", token))
	req.Header.Set("appkey", c.cfg.AppKey)
	req.Header.Set("appsecret", c.cfg.AppSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result hashkeyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	return result.Hash, nil
}

// requestWithHashkey makes a POST request with hashkey header
func (c *Client) requestWithHashkey(ctx context.Context, method, path, trID, hashkey string, body io.Reader) (*http.Response, error) {
	token, _, err := c.getToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}

	url := fmt.Sprintf("%s%s", c.cfg.BaseURL, path)
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("authorization", fmt.Sprintf("Bearer %s", token))
	req.Header.Set("appkey", c.cfg.AppKey)
	req.Header.Set("appsecret", c.cfg.AppSecret)
	req.Header.Set("tr_id", trID)
	req.Header.Set("custtype", c.cfg.CustType)
	req.Header.Set("hashkey", hashkey)

	return c.httpClient.Do(req)
}
