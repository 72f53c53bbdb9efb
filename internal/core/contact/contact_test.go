package contact_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/toaster/internal/core/contact"
	"github.com/colonyops/toaster/internal/core/toast"
	"github.com/colonyops/toaster/internal/core/toast/toasttest"
)

type mockSubmitter struct{ mock.Mock }

func (m *mockSubmitter) Submit(ctx context.Context, f contact.Form) error {
	return m.Called(ctx, f).Error(0)
}

func validForm() contact.Form {
	return contact.Form{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Company:  "Analytical Engines",
		Interest: "demo",
		Message:  "I would like to see a demo please.",
	}
}

func newStore(t *testing.T) *toast.Store {
	t.Helper()
	nop := zerolog.Nop()
	s := toast.NewStore(toast.StoreOptions{
		Scheduler: toasttest.NewScheduler(),
		Logger:    &nop,
	})
	t.Cleanup(s.Close)
	return s
}

func TestForm_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *contact.Form)
		fields []string
	}{
		{name: "valid", mutate: func(*contact.Form) {}},
		{name: "short name", mutate: func(f *contact.Form) { f.Name = "A" }, fields: []string{"name"}},
		{name: "bad email", mutate: func(f *contact.Form) { f.Email = "ada" }, fields: []string{"email"}},
		{name: "short company", mutate: func(f *contact.Form) { f.Company = "X" }, fields: []string{"company"}},
		{name: "unknown interest", mutate: func(f *contact.Form) { f.Interest = "crypto" }, fields: []string{"interest"}},
		{name: "missing interest", mutate: func(f *contact.Form) { f.Interest = "" }, fields: []string{"interest"}},
		{name: "short message", mutate: func(f *contact.Form) { f.Message = "hi" }, fields: []string{"message"}},
		{
			name:   "empty form",
			mutate: func(f *contact.Form) { *f = contact.Form{} },
			fields: []string{"name", "email", "company", "interest", "message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)

			err := f.Validate()
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}

			var ve *contact.ValidationError
			require.ErrorAs(t, err, &ve)
			got := make([]string, 0, len(ve.Fields))
			for _, fe := range ve.Fields {
				got = append(got, fe.Field)
			}
			assert.Equal(t, tt.fields, got)
			assert.True(t, contact.IsValidationError(err))
		})
	}
}

func TestInterestsMatchValidation(t *testing.T) {
	for _, interest := range contact.Interests {
		f := validForm()
		f.Interest = interest
		assert.NoError(t, f.Validate(), interest)
	}
}

func TestService_Submit_Success(t *testing.T) {
	store := newStore(t)
	sub := &mockSubmitter{}
	form := validForm()
	sub.On("Submit", mock.Anything, form).Return(nil).Once()

	svc := contact.NewService(store, sub, "hello@example.com")

	id, err := svc.Submit(context.Background(), form)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	n, ok := store.Get(id)
	require.True(t, ok)
	assert.Equal(t, toast.KindSuccess, n.Kind)
	assert.Equal(t, "Message sent successfully!", n.Title)
	assert.Equal(t, "We'll get back to you within 24 hours.", n.Detail)
	assert.Equal(t, toast.DefaultDuration, n.Duration)

	sub.AssertExpectations(t)
}

func TestService_Submit_Failure(t *testing.T) {
	store := newStore(t)
	sub := &mockSubmitter{}
	boom := errors.New("smtp unavailable")
	sub.On("Submit", mock.Anything, mock.Anything).Return(boom).Once()

	svc := contact.NewService(store, sub, "hello@example.com")

	id, err := svc.Submit(context.Background(), validForm())
	require.ErrorIs(t, err, boom)
	require.NotEmpty(t, id)

	n, ok := store.Get(id)
	require.True(t, ok)
	assert.Equal(t, toast.KindError, n.Kind)
	assert.Equal(t, "Failed to send message", n.Title)
	assert.Equal(t, "Please try again or contact us directly at hello@example.com", n.Detail)
}

func TestService_Submit_InvalidFormSkipsSubmitter(t *testing.T) {
	store := newStore(t)
	sub := &mockSubmitter{}

	svc := contact.NewService(store, sub, "hello@example.com")

	form := validForm()
	form.Email = "nope"

	id, err := svc.Submit(context.Background(), form)
	assert.Empty(t, id)
	assert.True(t, contact.IsValidationError(err))
	assert.Zero(t, store.Len())
	sub.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestLogSubmitter(t *testing.T) {
	t.Run("waits for delay", func(t *testing.T) {
		start := time.Now()
		err := contact.LogSubmitter{Delay: 20 * time.Millisecond}.Submit(context.Background(), validForm())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("honours cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := contact.LogSubmitter{Delay: time.Hour}.Submit(ctx, validForm())
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("zero delay", func(t *testing.T) {
		assert.NoError(t, contact.LogSubmitter{}.Submit(context.Background(), validForm()))
	})
}
