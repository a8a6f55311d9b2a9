package discount

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/kermes/kermes-panel/internal/apiclient"
	"github.com/kermes/kermes-panel/internal/form"
	"github.com/kermes/kermes-panel/internal/resource"
	"github.com/kermes/kermes-panel/pkg/enums"
	pkgerrors "github.com/kermes/kermes-panel/pkg/errors"
	"github.com/kermes/kermes-panel/pkg/logger"
	"github.com/kermes/kermes-panel/pkg/types"
)

// BasePath is the admin REST root of discounts. Deletes go here too.
const BasePath = "admin/product-discount"

// StatusFailedMessage is shown when a toggle fails without a specific reason.
const StatusFailedMessage = "Durum değiştirilemedi."

type Service interface {
	List(ctx context.Context, params resource.ListParams) (types.Page[Discount], error)
	FetchByID(ctx context.Context, id int64) (Discount, error)
	CreateData(ctx context.Context) (Options, error)
	SearchTargets(ctx context.Context, target enums.TargetType, query string) ([]types.Option, error)
	Save(ctx context.Context, f *Form) (Discount, error)
	Delete(ctx context.Context, id int64) error
	ChangeStatus(ctx context.Context, id int64) (resource.StatusResult[Discount], error)
}

type service struct {
	*resource.Service[Discount]
}

func NewService(api resource.API, logg *logger.Logger) Service {
	return &service{Service: resource.New[Discount](api, BasePath, logg)}
}

func (s *service) CreateData(ctx context.Context) (Options, error) {
	var raw json.RawMessage
	if err := s.Fetch(ctx, "create", nil, &raw); err != nil {
		return Options{}, err
	}
	return apiclient.DecodeRecord[Options](raw)
}

// SearchTargets looks up entities of the target type by name. An empty query
// yields no options and no request.
func (s *service) SearchTargets(ctx context.Context, target enums.TargetType, query string) ([]types.Option, error) {
	query = strings.TrimSpace(query)
	if query == "" || !target.IsValid() {
		return nil, nil
	}
	var raw json.RawMessage
	params := url.Values{"type": {target.String()}, "q": {query}}
	if err := s.Fetch(ctx, "search-targets", params, &raw); err != nil {
		return nil, err
	}
	items, err := apiclient.DecodeRecord[[]types.IDName](raw)
	if err != nil {
		return nil, err
	}
	return types.OptionsFrom(items), nil
}

func (s *service) Save(ctx context.Context, f *Form) (Discount, error) {
	if err := f.Validate().AsError(); err != nil {
		return Discount{}, err
	}
	if form.ModeFor(f.ID) == form.ModeEdit {
		return s.Update(ctx, f.ID, f)
	}
	return s.Add(ctx, f)
}

// ChangeStatus toggles the rule. The server may refuse with errors.discount[0],
// which becomes the error message; other failures get StatusFailedMessage.
func (s *service) ChangeStatus(ctx context.Context, id int64) (resource.StatusResult[Discount], error) {
	res, err := s.Service.ChangeStatus(ctx, id)
	if err == nil {
		return res, nil
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		return res, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, StatusFailedMessage)
	}
	switch typed.Code() {
	case pkgerrors.CodeUnauthorized:
		return res, err
	case pkgerrors.CodeValidation:
		if msg := typed.FieldErrors().First("discount"); msg != "" {
			return res, pkgerrors.Wrap(pkgerrors.CodeValidation, err, msg).
				WithDetails(typed.FieldErrors()).
				WithUpstreamStatus(typed.UpstreamStatus())
		}
	}
	return res, pkgerrors.Wrap(typed.Code(), err, StatusFailedMessage).WithUpstreamStatus(typed.UpstreamStatus())
}
