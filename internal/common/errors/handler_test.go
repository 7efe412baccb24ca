package errors

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

// ==========================
// Fakes
// ==========================

type fakeGateway struct {
	pb.GatewayClient
	failErr error
	failed  []*pb.FailJobRequest
	thrown  []*pb.ThrowErrorRequest
}

func (g *fakeGateway) FailJob(ctx context.Context, in *pb.FailJobRequest, opts ...grpc.CallOption) (*pb.FailJobResponse, error) {
	g.failed = append(g.failed, in)
	if g.failErr != nil {
		return nil, g.failErr
	}
	return &pb.FailJobResponse{}, nil
}

func (g *fakeGateway) ThrowError(ctx context.Context, in *pb.ThrowErrorRequest, opts ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	g.thrown = append(g.thrown, in)
	return &pb.ThrowErrorResponse{}, nil
}

func noRetry(context.Context, error) bool { return false }

type fakeJobClient struct {
	gateway *fakeGateway
}

func (c fakeJobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.gateway, noRetry)
}

func (c fakeJobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.gateway, noRetry)
}

func (c fakeJobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.gateway, noRetry)
}

type recordingSender struct {
	operations []string
	err        error
}

func (s *recordingSender) ExecuteWithRetry(ctx context.Context, commandFunc func(context.Context) (interface{}, error), operationName string) (interface{}, error) {
	s.operations = append(s.operations, operationName)
	result, err := commandFunc(ctx)
	if s.err != nil {
		return nil, s.err
	}
	return result, err
}

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {
	l.messages = append(l.messages, msg)
}

// ==========================
// HandleJobError
// ==========================

func TestHandleJobError_FailsRetryableJob(t *testing.T) {
	gateway := &fakeGateway{}
	sender := &recordingSender{}
	handler := NewErrorHandler(&recordingLogger{}, sender)

	job := entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 42, Retries: 3}}
	handler.HandleJobError(context.Background(), fakeJobClient{gateway}, job,
		NewCandidateFetchFailedError("internal_db", stderrors.New("conn reset")))

	assert.Equal(t, []string{"fail-job"}, sender.operations)
	require.Len(t, gateway.failed, 1)
	assert.Equal(t, int64(42), gateway.failed[0].JobKey)
	assert.Equal(t, int32(2), gateway.failed[0].Retries)
	assert.Contains(t, gateway.failed[0].Variables, "CANDIDATE_FETCH_FAILED")
	assert.Empty(t, gateway.thrown)
}

func TestHandleJobError_ThrowsBusinessError(t *testing.T) {
	gateway := &fakeGateway{}
	sender := &recordingSender{}
	handler := NewErrorHandler(&recordingLogger{}, sender)

	job := entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 7, Retries: 3}}
	handler.HandleJobError(context.Background(), fakeJobClient{gateway}, job, NewInvalidRequestError("missing trade"))

	assert.Equal(t, []string{"throw-error"}, sender.operations)
	require.Len(t, gateway.thrown, 1)
	assert.Equal(t, "INVALID_REQUEST", gateway.thrown[0].ErrorCode)
	assert.Empty(t, gateway.failed)
}

func TestHandleJobError_LogsSendFailure(t *testing.T) {
	gateway := &fakeGateway{}
	log := &recordingLogger{}
	sender := &recordingSender{err: NewTimeoutError("zeebe", stderrors.New("deadline exceeded"))}
	handler := NewErrorHandler(log, sender)

	job := entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 9, Retries: 3}}
	handler.HandleJobError(context.Background(), fakeJobClient{gateway}, job, NewQueryTimeoutError("candidates"))

	assert.Equal(t, []string{"job failed", "failed to send job command"}, log.messages)
}

func TestSendCommand_NilSenderSendsOnce(t *testing.T) {
	calls := 0
	err := SendCommand(context.Background(), nil, "complete-job", func(context.Context) (interface{}, error) {
		calls++
		return nil, stderrors.New("unavailable")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
