package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swiftride/dispatch/internal/pkg/apperrors"
	"github.com/swiftride/dispatch/internal/pkg/models"
	"github.com/swiftride/dispatch/services/bookings"
	"github.com/swiftride/dispatch/services/bookings/mocks"
)

func testConfig(acceptTimeout time.Duration) *models.Config {
	return &models.Config{
		Match: models.MatchConfig{
			SearchRadiusKm:   5,
			AcceptTimeout:    acceptTimeout,
			MaxReassignments: 3,
			CandidateBudget:  5,
		},
	}
}

func newStoreForTest(t *testing.T, cfg *models.Config) (bookings.BookingUC, *mocks.MockBookingRepo, *mocks.MockBookingGW) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockBookingRepo(ctrl)
	gw := mocks.NewMockBookingGW(ctrl)

	repo.EXPECT().ListActiveBookings(gomock.Any()).Return(nil, nil)
	uc, err := NewBookingUC(context.Background(), cfg, repo, gw)
	require.NoError(t, err)
	return uc, repo, gw
}

func createPending(t *testing.T, uc bookings.BookingUC, repo *mocks.MockBookingRepo, gw *mocks.MockBookingGW) *models.Booking {
	t.Helper()
	repo.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).Return(nil)
	gw.EXPECT().PublishBookingCreated(gomock.Any(), gomock.Any()).Return(nil)

	booking, err := uc.CreateBooking(context.Background(), &models.BookingRequest{
		CustomerID: uuid.New().String(),
		Pickup:     models.Location{Latitude: -6.175392, Longitude: 106.827153},
		Drop:       models.Location{Latitude: -6.137645, Longitude: 106.817125},
		TripType:   "standard",
	})
	require.NoError(t, err)
	return booking
}

func TestCreateBooking(t *testing.T) {
	uc, repo, gw := newStoreForTest(t, testConfig(time.Minute))

	booking := createPending(t, uc, repo, gw)

	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Nil(t, booking.DriverID)
	assert.Zero(t, booking.Reassignments)
	assert.False(t, booking.CreatedAt.IsZero())
}

func TestCreateBookingInvalidCustomerID(t *testing.T) {
	uc, _, _ := newStoreForTest(t, testConfig(time.Minute))

	_, err := uc.CreateBooking(context.Background(), &models.BookingRequest{
		CustomerID: "not-a-uuid",
	})
	assert.Error(t, err)
}

func TestAssignStampsAcceptDeadline(t *testing.T) {
	uc, repo, gw := newStoreForTest(t, testConfig(time.Minute))
	booking := createPending(t, uc, repo, gw)
	driverID := uuid.New()

	repo.EXPECT().UpdateBooking(gomock.Any(), gomock.Any()).Return(nil)
	assigned, err := uc.Assign(context.Background(), booking.ID, driverID)
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusAssigned, assigned.Status)
	require.NotNil(t, assigned.DriverID)
	assert.Equal(t, driverID, *assigned.DriverID)
	require.NotNil(t, assigned.AssignedAt)
	require.NotNil(t, assigned.AcceptDeadline)
	assert.Equal(t, time.Minute, assigned.AcceptDeadline.Sub(*assigned.AssignedAt))
}

func TestAssignIdempotentForSameDriver(t *testing.T) {
	uc, repo, gw := newStoreForTest(t, testConfig(time.Minute))
	booking := createPending(t, uc, repo, gw)
	driverID := uuid.New()

	repo.EXPECT().UpdateBooking(gomock.Any(), gomock.Any()).Return(nil)
	first, err := uc.Assign(context.Background(), booking.ID, driverID)
	require.NoError(t, err)

	// Retry does not persist again.
	second, err := uc.Assign(context.Background(), booking.ID, driverID)
	require.NoError(t, err)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, *first.AcceptDeadline, *second.AcceptDeadline)
}

func TestAssignRejectsSecondDriver(t *testing.T) {
	uc, repo, gw := newStoreForTest(t, testConfig(time.Minute))
	booking := createPending(t, uc, repo, gw)

	repo.EXPECT().UpdateBooking(gomock.Any(), gomock.Any()).Return(nil)
	_, err := uc.Assign(context.Background(), booking.ID, uuid.New())
	require.NoError(t, err)

	_, err = uc.Assign(context.Background(), booking.ID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestAcceptHappyPath(t *testing.T) {
	uc, repo, gw := newStoreForTest(t, testConfig(time.Minute))
	booking := createPending(t, uc, repo, gw)
	driverID := uuid.New()

	repo.EXPECT().UpdateBooking(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	_, err := uc.Assign(context.Background(), booking.ID, driverID)
	require.NoError(t, err)

	accepted, err := uc.Accept(context.Background(), booking.ID, driverID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusAccepted, accepted.Status)
}

func TestAcceptWrongDriver(t *testing.T) {
	uc, repo, gw := newStoreForTest(t, testConfig(time.Minute))
	booking := createPending(t, uc, repo, gw)

	repo.EXPECT().UpdateBooking(gomock.Any(), gomock.Any()).Return(nil)
	_, err := uc.Assign(context.Background(), booking.ID, uuid.New())
	require.NoError(t, err)

	_, err = uc.Accept(context.Background(), booking.ID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotYourBooking)
}

func TestAcceptPastDeadlineLosesToTimeout(t *testing.T) {
	// A negative timeout yields a deadline already in the past.
	uc, repo, gw := newStoreForTest(t, testConfig(-time.Second))
	booking := createPending(t, uc, repo, gw)
	driverID := uuid.New()

	repo.EXPECT().UpdateBooking(gomock.Any(), gomock.Any()).Return(nil)
	_, err := uc.Assign(context.Background(), booking.ID, driverID)
	require.NoError(t, err)

	_, err = uc.Accept(context.Background(), booking.ID, driverID)
	assert.ErrorIs(t, err, apperrors.ErrStaleState)
}

func TestAcceptIdempotentRetry(t *testing.T) {
	uc, repo, gw := newStoreForTest(t, testConfig(time.Minute))
	booking := createPending(t, uc, repo, gw)
	driverID := uuid.New()

	repo.EXPECT().UpdateBooking(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	_, err := uc.Assign(context.Background(), booking.ID, driverID)
	require.NoError(t, err)
	_, err = uc.Accept(context.Background(), booking.ID, driverID)
	require.NoError(t, err)

	// Retry returns current state without persisting again.
	retried, err := uc.Accept(context.Background(), booking.ID, driverID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusAccepted, retried.Status)
}

func TestAcceptAfterTimeoutRequeue(t *testing.T) {
	uc, repo, gw := newStoreForTest(t, testConfig(-time.Second))
	booking := createPending(t, uc, repo, gw)
	driverID := uuid.New()

	repo.EXPECT().UpdateBooking(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	_, err := uc.Assign(context.Background(), booking.ID, driverID)
	require.NoError(t, err)

	requeued, err := uc.DeclineExpired(context.Background(), booking.ID, models.Now())
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, requeued.Status)
	assert.Nil(t, requeued.DriverID)
	assert.Equal(t, 1, requeued.Reassignments)

	// The driver's late accept finds the booking requeued.
	_, err = uc.Accept(context.Background(), booking.ID, driverID)
	assert.ErrorIs(t, err, apperrors.ErrStaleState)
}

func TestAcceptPendingNeverAssigned(t *testing.T) {
	uc, repo, gw := newStoreForTest(t, testConfig(time.Minute))
	booking := createPending(t, uc, repo, gw)

	_, err := uc.Accept(context.Background(), booking.ID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestDeclineRequeues(t *testing.T) {
	uc, repo, gw := newStoreForTest(t, testConfig(time.Minute))
	booking := createPending(t, uc, repo, gw)
	driverID := uuid.New()

	repo.EXPECT().UpdateBooking(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	_, err := uc.Assign(context.Background(), booking.ID, driverID)
	require.NoError(t, err)

	declined, err := uc.Decline(context.Background(), booking.ID, driverID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, declined.Status)
	assert.Nil(t, declined.DriverID)
	assert.Nil(t, declined.AcceptDeadline)
	assert.Equal(t, 1, declined.Reassignments)

	// A retried decline is a no-op.
	retried, err := uc.Decline(context.Background(), booking.ID, driverID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, retried.Status)
	assert.Equal(t, 1, retried.Reassignments)
}

func TestDeclineAfterAcceptKeepsDriver(t *testing.T) {
	uc, repo, gw := newStoreForTest(t, testConfig(time.Minute))
	booking := createPending(t, uc, repo, gw)
	driverID := uuid.New()

	repo.EXPECT().UpdateBooking(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	_, err := uc.Assign(context.Background(), booking.ID, driverID)
	require.NoError(t, err)
	_, err = uc.Accept(context.Background(), booking.ID, driverID)
	require.NoError(t, err)

	_, err = uc.Decline(context.Background(), booking.ID, driverID)
	assert.ErrorIs(t, err, apperrors.ErrStaleState)

	current, err := uc.GetBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusAccepted, current.Status)
	require.NotNil(t, current.DriverID)
	assert.Equal(t, driverID, *current.DriverID)
}

func TestDeclineExpiredBeforeDeadline(t *testing.T) {
	uc, repo, gw := newStoreForTest(t, testConfig(time.Minute))
	booking := createPending(t, uc, repo, gw)

	repo.EXPECT().UpdateBooking(gomock.Any(), gomock.Any()).Return(nil)
	_, err := uc.Assign(context.Background(), booking.ID, uuid.New())
	require.NoError(t, err)

	_, err = uc.DeclineExpired(context.Background(), booking.ID, models.Now())
	assert.ErrorIs(t, err, apperrors.ErrStaleState)
}

func TestStartAndCompleteFlow(t *testing.T) {
	uc, repo, gw := newStoreForTest(t, testConfig(time.Minute))
	booking := createPending(t, uc, repo, gw)
	driverID := uuid.New()

	repo.EXPECT().UpdateBooking(gomock.Any(), gomock.Any()).Return(nil).Times(4)
	_, err := uc.Assign(context.Background(), booking.ID, driverID)
	require.NoError(t, err)
	_, err = uc.Accept(context.Background(), booking.ID, driverID)
	require.NoError(t, err)

	started, err := uc.Start(context.Background(), booking.ID, driverID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusInRide, started.Status)

	completed, err := uc.Complete(context.Background(), booking.ID, driverID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, completed.Status)

	// Completing again is a no-op for the same driver.
	retried, err := uc.Complete(context.Background(), booking.ID, driverID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, retried.Status)
}

func TestStartBeforeAccept(t *testing.T) {
	uc, repo, gw := newStoreForTest(t, testConfig(time.Minute))
	booking := createPending(t, uc, repo, gw)
	driverID := uuid.New()

	repo.EXPECT().UpdateBooking(gomock.Any(), gomock.Any()).Return(nil)
	_, err := uc.Assign(context.Background(), booking.ID, driverID)
	require.NoError(t, err)

	_, err = uc.Start(context.Background(), booking.ID, driverID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestCancel(t *testing.T) {
	uc, repo, gw := newStoreForTest(t, testConfig(time.Minute))
	booking := createPending(t, uc, repo, gw)

	repo.EXPECT().UpdateBooking(gomock.Any(), gomock.Any()).Return(nil)
	cancelled, err := uc.Cancel(context.Background(), booking.ID, models.CancelReasonCustomer)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
	assert.Equal(t, models.CancelReasonCustomer, cancelled.CancelReason)

	// Cancelling again is a no-op.
	retried, err := uc.Cancel(context.Background(), booking.ID, models.CancelReasonCustomer)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, retried.Status)
}

func TestCancelCompletedBooking(t *testing.T) {
	uc, repo, gw := newStoreForTest(t, testConfig(time.Minute))
	booking := createPending(t, uc, repo, gw)
	driverID := uuid.New()

	repo.EXPECT().UpdateBooking(gomock.Any(), gomock.Any()).Return(nil).Times(4)
	_, err := uc.Assign(context.Background(), booking.ID, driverID)
	require.NoError(t, err)
	_, err = uc.Accept(context.Background(), booking.ID, driverID)
	require.NoError(t, err)
	_, err = uc.Start(context.Background(), booking.ID, driverID)
	require.NoError(t, err)
	_, err = uc.Complete(context.Background(), booking.ID, driverID)
	require.NoError(t, err)

	_, err = uc.Cancel(context.Background(), booking.ID, models.CancelReasonCustomer)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestCancelKeepsDriverForRelease(t *testing.T) {
	uc, repo, gw := newStoreForTest(t, testConfig(time.Minute))
	booking := createPending(t, uc, repo, gw)
	driverID := uuid.New()

	repo.EXPECT().UpdateBooking(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	_, err := uc.Assign(context.Background(), booking.ID, driverID)
	require.NoError(t, err)

	cancelled, err := uc.Cancel(context.Background(), booking.ID, models.CancelReasonCustomer)
	require.NoError(t, err)
	require.NotNil(t, cancelled.DriverID)
	assert.Equal(t, driverID, *cancelled.DriverID)
}

func TestPersistenceFailureRollsBack(t *testing.T) {
	uc, repo, gw := newStoreForTest(t, testConfig(time.Minute))
	booking := createPending(t, uc, repo, gw)

	repo.EXPECT().UpdateBooking(gomock.Any(), gomock.Any()).Return(assert.AnError)
	_, err := uc.Assign(context.Background(), booking.ID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrPersistence)

	// In-memory state stayed pending, so the transition can be retried.
	current, err := uc.GetBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, current.Status)
	assert.Nil(t, current.DriverID)
}

func TestGetBookingUnknownID(t *testing.T) {
	uc, repo, _ := newStoreForTest(t, testConfig(time.Minute))

	bookingID := uuid.New()
	repo.EXPECT().GetBooking(gomock.Any(), bookingID).Return(nil, apperrors.ErrBookingNotFound)

	_, err := uc.GetBooking(context.Background(), bookingID)
	assert.ErrorIs(t, err, apperrors.ErrBookingNotFound)
}

func TestListPendingAndExpired(t *testing.T) {
	uc, repo, gw := newStoreForTest(t, testConfig(-time.Second))
	pending := createPending(t, uc, repo, gw)
	assigned := createPending(t, uc, repo, gw)

	repo.EXPECT().UpdateBooking(gomock.Any(), gomock.Any()).Return(nil)
	_, err := uc.Assign(context.Background(), assigned.ID, uuid.New())
	require.NoError(t, err)

	pendingList, err := uc.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pendingList, 1)
	assert.Equal(t, pending.ID, pendingList[0].ID)

	expired, err := uc.ListExpiredAssigned(context.Background(), models.Now())
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, assigned.ID, expired[0].ID)
}
