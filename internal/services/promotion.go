package service

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/backoffice"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/errors"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/pricing"
)

// PromotionResolver turns a code typed at the register into an absolute
// discount for the given subtotal. Unknown or unusable codes yield an
// INVALID_PROMOTION AppError.
type PromotionResolver interface {
	Resolve(ctx context.Context, token, code string, subtotal float64) (float64, error)
}

const (
	PromotionModeStatic = "static"
	PromotionModeRemote = "remote"
)

func NewPromotionResolver(mode string, client backoffice.Client) (PromotionResolver, error) {
	switch mode {
	case PromotionModeStatic:
		return StaticPromotionResolver{}, nil
	case PromotionModeRemote:
		return NewRemotePromotionResolver(client), nil
	default:
		return nil, fmt.Errorf("unknown promotion mode %q", mode)
	}
}

// StaticPromotionResolver knows the two register demo codes.
type StaticPromotionResolver struct{}

func (StaticPromotionResolver) Resolve(_ context.Context, _ string, code string, subtotal float64) (float64, error) {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "WELCOME10":
		return subtotal * 0.1, nil
	case "SUMMER25":
		return 5000, nil
	default:
		return 0, errors.InvalidPromotionError(code)
	}
}

type RemotePromotionResolver struct {
	client backoffice.Client
	now    func() time.Time
}

func NewRemotePromotionResolver(client backoffice.Client) *RemotePromotionResolver {
	return &RemotePromotionResolver{client: client, now: time.Now}
}

func (r *RemotePromotionResolver) Resolve(ctx context.Context, token, code string, subtotal float64) (float64, error) {

	normalized := strings.ToUpper(strings.TrimSpace(code))

	promo, err := r.client.GetPromotionByCode(ctx, token, normalized)
	if err != nil {
		if stdErrors.Is(err, backoffice.ErrNotFound) {
			return 0, errors.InvalidPromotionError(code).WithError(err)
		}

		return 0, upstreamError("Failed to look up promotion", err)
	}

	discount, err := pricing.ResolveDiscount(*promo, subtotal, r.now())
	if err != nil {
		return 0, errors.InvalidPromotionError(code).WithDetail(fmt.Sprintf("%s: %s", normalized, err.Error())).WithError(err)
	}

	return discount, nil
}
