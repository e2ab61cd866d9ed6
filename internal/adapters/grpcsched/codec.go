// Package grpcsched exposes schedule.Service over gRPC. Messages are
// google.protobuf.Struct values carrying the JSON form of the model, params
// and result, so no generated stubs are needed on either side.
package grpcsched

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/napolitain/solver-aoe/internal/schedule"
)

const (
	ServiceName = "scheduling.v1.SchedulingService"
	SolveMethod = "/" + ServiceName + "/Solve"
)

type paramsWire struct {
	Workers   int   `json:"workers"`
	TimeoutMS int64 `json:"timeout_ms"`
}

type solveRequest struct {
	Model  *schedule.Model `json:"model"`
	Params paramsWire      `json:"params"`
}

func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	st := &structpb.Struct{}
	if err := protojson.Unmarshal(data, st); err != nil {
		return nil, err
	}
	return st, nil
}

func fromStruct(st *structpb.Struct, v any) error {
	data, err := protojson.Marshal(st)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func encodeRequest(m *schedule.Model, p schedule.Params) (*structpb.Struct, error) {
	st, err := toStruct(solveRequest{
		Model: m,
		Params: paramsWire{
			Workers:   p.Workers,
			TimeoutMS: p.Timeout.Milliseconds(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode solve request: %w", err)
	}
	return st, nil
}

func decodeRequest(st *structpb.Struct) (*schedule.Model, schedule.Params, error) {
	var req solveRequest
	if err := fromStruct(st, &req); err != nil {
		return nil, schedule.Params{}, fmt.Errorf("failed to decode solve request: %w", err)
	}
	if req.Model == nil {
		return nil, schedule.Params{}, fmt.Errorf("solve request has no model")
	}
	return req.Model, schedule.Params{
		Workers: req.Params.Workers,
		Timeout: time.Duration(req.Params.TimeoutMS) * time.Millisecond,
	}, nil
}

func encodeResult(r *schedule.Result) (*structpb.Struct, error) {
	st, err := toStruct(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode solve result: %w", err)
	}
	return st, nil
}

func decodeResult(st *structpb.Struct) (*schedule.Result, error) {
	var r schedule.Result
	if err := fromStruct(st, &r); err != nil {
		return nil, fmt.Errorf("failed to decode solve result: %w", err)
	}
	switch r.Status {
	case schedule.StatusOptimal, schedule.StatusFeasible, schedule.StatusInfeasible, schedule.StatusTimedOutNoSolution:
	default:
		return nil, fmt.Errorf("unknown solve status %q", r.Status)
	}
	return &r, nil
}
