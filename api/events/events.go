// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/fctrlabs/fstake/api/utils"
	"github.com/fctrlabs/fstake/eventdb"
	"github.com/fctrlabs/fstake/ledger"
)

// Filterer queries recorded events.
type Filterer interface {
	Filter(ctx context.Context, filter *eventdb.Filter) ([]*eventdb.Event, error)
}

type Events struct {
	db    Filterer
	limit uint64
}

func New(db Filterer, limit uint64) *Events {
	return &Events{
		db,
		limit,
	}
}

func parseUint(query url.Values, name string) (uint64, bool, error) {
	s := query.Get(name)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false, utils.BadRequest(errors.WithMessage(err, name))
	}
	return v, true, nil
}

// parseFilter builds the filter from query parameters:
// staker, op (repeatable), from, to, offset, limit and order.
func (e *Events) parseFilter(query url.Values) (*eventdb.Filter, error) {
	filter := &eventdb.Filter{
		Ops:     query["op"],
		Options: &eventdb.Options{Limit: e.limit},
	}

	if s := query.Get("staker"); s != "" {
		addr, err := ledger.ParseAddress(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "staker"))
		}
		filter.Staker = &addr
	}

	from, hasFrom, err := parseUint(query, "from")
	if err != nil {
		return nil, err
	}
	to, hasTo, err := parseUint(query, "to")
	if err != nil {
		return nil, err
	}
	if hasFrom || hasTo {
		if !hasTo {
			to = math.MaxInt64
		}
		if from > to {
			return nil, utils.BadRequest(errors.New("to must be greater than or equal to from"))
		}
		filter.Range = &eventdb.Range{From: from, To: to}
	}

	offset, _, err := parseUint(query, "offset")
	if err != nil {
		return nil, err
	}
	if offset > math.MaxInt64 {
		return nil, utils.BadRequest(fmt.Errorf("offset exceeds the maximum allowed value of %d", int64(math.MaxInt64)))
	}
	filter.Options.Offset = offset

	limit, hasLimit, err := parseUint(query, "limit")
	if err != nil {
		return nil, err
	}
	if hasLimit {
		if limit > e.limit {
			return nil, utils.Forbidden(fmt.Errorf("limit exceeds the maximum allowed value of %d", e.limit))
		}
		filter.Options.Limit = limit
	}

	switch order := eventdb.OrderType(query.Get("order")); order {
	case "", eventdb.ASC, eventdb.DESC:
		filter.Order = order
	default:
		return nil, utils.BadRequest(fmt.Errorf("order: unknown value %q", order))
	}
	return filter, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	filter, err := e.parseFilter(req.URL.Query())
	if err != nil {
		return err
	}
	events, err := e.db.Filter(req.Context(), filter)
	if err != nil {
		return err
	}
	fes := make([]*FilteredEvent, len(events))
	for i, ev := range events {
		fes[i] = ConvertEvent(ev)
	}
	return utils.WriteJSON(w, fes)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
