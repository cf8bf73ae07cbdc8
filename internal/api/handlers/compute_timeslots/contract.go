package compute_timeslots

import (
	"context"

	computeTimeslots "github.com/m04kA/SMC-TimeslotService/internal/usecase/compute_timeslots"
)

type ComputeTimeslotsUseCase interface {
	Execute(ctx context.Context, req *computeTimeslots.Request) (*computeTimeslots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
