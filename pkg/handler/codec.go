// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/AccelByte/extend-tag-engine/pkg/arsenal"
	"github.com/AccelByte/extend-tag-engine/pkg/common"
	"github.com/AccelByte/extend-tag-engine/pkg/game"
	"github.com/AccelByte/extend-tag-engine/pkg/geo"
	"github.com/AccelByte/extend-tag-engine/pkg/lobby"
	"github.com/AccelByte/extend-tag-engine/pkg/tripwire"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

var errMissingField = errors.New("missing required field")

// handle decodes in into a Req, runs fn inside a traced scope and encodes its
// result. Domain errors are translated to gRPC status codes.
func handle[Req any](ctx context.Context, method string, in *structpb.Struct, fn func(scope *common.Scope, req *Req) (interface{}, error)) (*structpb.Struct, error) {
	scope := common.GetScopeFromContext(ctx, "TagEngine."+method)
	defer scope.Finish()
	scope.Identify(in.GetFields()["gameId"].GetStringValue(), in.GetFields()["playerId"].GetStringValue())

	req := new(Req)
	if err := decode(in, req); err != nil {
		scope.TraceError(err)
		return nil, status.Errorf(codes.InvalidArgument, "malformed %s request: %v", method, err)
	}

	out, err := fn(scope, req)
	if err != nil {
		scope.TraceError(err)
		st := toStatus(err)
		switch st.Code() {
		case codes.Internal, codes.Unavailable:
			scope.Log.Errorf("%s failed: %v", method, err)
		default:
			scope.Log.Infof("%s rejected: %v", method, err)
		}
		return nil, st.Err()
	}

	resp, err := encode(out)
	if err != nil {
		scope.TraceError(err)
		return nil, status.Errorf(codes.Internal, "failed to encode %s response: %v", method, err)
	}
	return resp, nil
}

func decode(in *structpb.Struct, v interface{}) error {
	if in == nil {
		return nil
	}
	data, err := json.Marshal(in.AsMap())
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func encode(v interface{}) (*structpb.Struct, error) {
	if v == nil {
		return &structpb.Struct{Fields: map[string]*structpb.Value{}}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := map[string]interface{}{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

// required reports every empty field by name.
func required(fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: %s", errMissingField, strings.Join(missing, ", "))
}

func toStatus(err error) *status.Status {
	if st, ok := status.FromError(err); ok {
		return st
	}

	code := codes.Internal
	switch {
	case errors.Is(err, game.ErrGameNotFound),
		errors.Is(err, game.ErrPlayerNotFound),
		errors.Is(err, game.ErrTripwireNotFound),
		errors.Is(err, game.ErrRevealNotFound):
		code = codes.NotFound
	case errors.Is(err, errMissingField),
		errors.Is(err, geo.ErrInvalidCoordinate),
		errors.Is(err, game.ErrInvalidTagKind),
		errors.Is(err, game.ErrInvalidItemKind),
		errors.Is(err, lobby.ErrTitleRequired),
		errors.Is(err, lobby.ErrInvalidTimeZone),
		errors.Is(err, tripwire.ErrEmptyPath),
		errors.Is(err, arsenal.ErrInvalidQuantity):
		code = codes.InvalidArgument
	case errors.Is(err, game.ErrGameNotWaiting),
		errors.Is(err, game.ErrGameNotActive),
		errors.Is(err, game.ErrHomeBasesPlaced),
		errors.Is(err, game.ErrPlayerEliminated),
		errors.Is(err, game.ErrOutOfTags),
		errors.Is(err, game.ErrNoRadarTarget):
		code = codes.FailedPrecondition
	case errors.Is(err, game.ErrGameFull):
		code = codes.ResourceExhausted
	case errors.Is(err, game.ErrAlreadyJoined),
		errors.Is(err, game.ErrJoinCodeTaken):
		code = codes.AlreadyExists
	case errors.Is(err, game.ErrStoreUnavailable):
		code = codes.Unavailable
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	}
	return status.New(code, err.Error())
}
