package ledger

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/algoease/escrow/src/utils/build_info"
	"github.com/algoease/escrow/src/utils/config"
	"github.com/algoease/escrow/src/utils/logger"
	"github.com/algoease/escrow/src/utils/task"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

// HTTP adapter towards the escrow ledger service
type Client struct {
	config  *config.Ledger
	log     *logrus.Entry
	client  *resty.Client
	limiter ratelimit.Limiter
}

type transferRequest struct {
	IdempotencyKey   string `json:"idempotency_key"`
	BountyID         string `json:"bounty_id"`
	Action           string `json:"action"`
	Amount           uint64 `json:"amount"`
	RecipientAddress string `json:"recipient_address"`
}

type transferResponse struct {
	Status string `json:"status"`
	TxID   string `json:"tx_id"`
	Reason string `json:"reason"`
}

func NewClient(config *config.Ledger) (self *Client) {
	self = new(Client)
	self.config = config
	self.log = logger.NewSublogger("ledger-client")

	self.limiter = ratelimit.New(config.RateLimit)

	self.client = resty.New().
		SetBaseURL(config.Url).
		SetTimeout(config.RequestTimeout).
		SetHeader("User-Agent", "algoease/escrow/"+build_info.Version).
		SetHeader("Accept", "application/json")

	if config.Token != "" {
		self.client = self.client.SetAuthToken(config.Token)
	}

	return
}

func (self *Client) Transfer(ctx context.Context, order *Order) (result Result, err error) {
	self.limiter.Take()

	var resp *resty.Response
	err = task.NewRetry().
		WithContext(ctx).
		WithMaxElapsedTime(self.config.MaxElapsedTime).
		WithMaxInterval(self.config.MaxInterval).
		WithOnError(func(err error) {
			self.log.WithError(err).
				WithField("bounty_id", order.BountyID).
				Warn("Transfer attempt failed, retrying")
		}).
		Run(func() (err error) {
			resp, err = self.client.R().
				SetContext(ctx).
				SetBody(&transferRequest{
					IdempotencyKey:   order.IdempotencyKey(),
					BountyID:         order.BountyID,
					Action:           string(order.Action),
					Amount:           order.Amount,
					RecipientAddress: order.RecipientAddress,
				}).
				SetResult(&transferResponse{}).
				ForceContentType("application/json").
				Post("/v1/transfers")
			if err != nil {
				return
			}

			if resp.StatusCode() >= 500 {
				// Transient, safe to retry thanks to the idempotency key
				return fmt.Errorf("unexpected status: %s", resp.Status())
			}
			return
		})
	if err != nil {
		if isTimeout(err) || (resp != nil && resp.StatusCode() >= 500) {
			// The ledger may have processed the order, we just don't know
			return ResultUnknown, err
		}
		// The request never went through
		return ResultFailed, err
	}

	if !resp.IsSuccess() {
		// The ledger rejected the order outright
		return ResultFailed, fmt.Errorf("transfer rejected: %s", resp.Status())
	}

	out, ok := resp.Result().(*transferResponse)
	if !ok {
		return ResultUnknown, errors.New("failed to parse transfer response")
	}

	switch out.Status {
	case "confirmed":
		self.log.WithField("bounty_id", order.BountyID).
			WithField("tx_id", out.TxID).
			Debug("Transfer confirmed")
		return ResultConfirmed, nil
	case "failed":
		return ResultFailed, fmt.Errorf("transfer failed: %s", out.Reason)
	default:
		return ResultUnknown, nil
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var uerr *url.Error
	return errors.As(err, &uerr) && uerr.Timeout()
}
