package queue

import (
	"github.com/hibiken/asynq"
)

// Registry maps task types to their handlers. The worker binary registers
// every handler it runs and hands the mux to the asynq server.
type Registry struct {
	mux *asynq.ServeMux
}

func NewRegistry() *Registry {
	return &Registry{mux: asynq.NewServeMux()}
}

func (r *Registry) Register(taskType string, handler asynq.Handler) {
	r.mux.Handle(taskType, handler)
}

func (r *Registry) Mux() *asynq.ServeMux {
	return r.mux
}
