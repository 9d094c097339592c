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
	"github.com/swiftride/dispatch/internal/pkg/constants"
	"github.com/swiftride/dispatch/internal/pkg/models"
	bookingmocks "github.com/swiftride/dispatch/services/bookings/mocks"
	drivermocks "github.com/swiftride/dispatch/services/drivers/mocks"
	"github.com/swiftride/dispatch/services/match"
	matchmocks "github.com/swiftride/dispatch/services/match/mocks"
)

type coordinatorMocks struct {
	driverUC  *drivermocks.MockDriverUC
	bookingUC *bookingmocks.MockBookingUC
	gw        *matchmocks.MockMatchGW
}

func newCoordinatorForTest(t *testing.T) (match.MatchUC, coordinatorMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := coordinatorMocks{
		driverUC:  drivermocks.NewMockDriverUC(ctrl),
		bookingUC: bookingmocks.NewMockBookingUC(ctrl),
		gw:        matchmocks.NewMockMatchGW(ctrl),
	}

	cfg := &models.Config{
		Match: models.MatchConfig{
			SearchRadiusKm:   5,
			AcceptTimeout:    time.Minute,
			MaxReassignments: 3,
			CandidateBudget:  5,
		},
	}
	return NewMatchUC(cfg, m.driverUC, m.bookingUC, m.gw), m
}

func pendingBooking() *models.Booking {
	return &models.Booking{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Pickup:     models.Location{Latitude: -6.175392, Longitude: 106.827153},
		Drop:       models.Location{Latitude: -6.2, Longitude: 106.8},
		Status:     models.BookingStatusPending,
		CreatedAt:  models.Now(),
		UpdatedAt:  models.Now(),
	}
}

func assignedFrom(booking *models.Booking, driverID uuid.UUID) *models.Booking {
	assigned := booking.Clone()
	assigned.DriverID = &driverID
	assigned.Status = models.BookingStatusAssigned
	now := models.Now()
	deadline := now.Add(time.Minute)
	assigned.AssignedAt = &now
	assigned.AcceptDeadline = &deadline
	assigned.UpdatedAt = now
	return assigned
}

func TestRequestMatchAssignsNearestDriver(t *testing.T) {
	uc, m := newCoordinatorForTest(t)
	ctx := context.Background()

	booking := pendingBooking()
	driverID := uuid.New()
	assigned := assignedFrom(booking, driverID)

	m.bookingUC.EXPECT().GetBooking(ctx, booking.ID).Return(booking, nil)
	m.driverUC.EXPECT().FindAvailable(ctx, gomock.Any()).Return([]models.NearbyDriver{
		{ID: driverID.String(), Distance: 0.4},
	}, nil)
	m.driverUC.EXPECT().Reserve(ctx, driverID, booking.ID).Return(nil)
	m.bookingUC.EXPECT().Assign(ctx, booking.ID, driverID).Return(assigned, nil)
	m.gw.EXPECT().PublishAssignment(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, event models.AssignmentEvent) error {
			assert.Equal(t, booking.ID.String(), event.BookingID)
			assert.Equal(t, driverID.String(), event.DriverID)
			assert.Equal(t, *assigned.AcceptDeadline, event.AcceptDeadline)
			return nil
		})

	require.NoError(t, uc.RequestMatch(ctx, booking.ID))
}

func TestRequestMatchSkipsNonPendingBooking(t *testing.T) {
	uc, m := newCoordinatorForTest(t)
	ctx := context.Background()

	booking := pendingBooking()
	booking.Status = models.BookingStatusAccepted

	m.bookingUC.EXPECT().GetBooking(ctx, booking.ID).Return(booking, nil)

	require.NoError(t, uc.RequestMatch(ctx, booking.ID))
}

func TestRequestMatchMovesOnAfterLosingReserveRace(t *testing.T) {
	uc, m := newCoordinatorForTest(t)
	ctx := context.Background()

	booking := pendingBooking()
	taken := uuid.New()
	free := uuid.New()
	assigned := assignedFrom(booking, free)

	m.bookingUC.EXPECT().GetBooking(ctx, booking.ID).Return(booking, nil)
	m.driverUC.EXPECT().FindAvailable(ctx, gomock.Any()).Return([]models.NearbyDriver{
		{ID: taken.String(), Distance: 0.2},
		{ID: free.String(), Distance: 1.1},
	}, nil)
	m.driverUC.EXPECT().Reserve(ctx, taken, booking.ID).Return(apperrors.ErrAlreadyAssigned)
	m.driverUC.EXPECT().Reserve(ctx, free, booking.ID).Return(nil)
	m.bookingUC.EXPECT().Assign(ctx, booking.ID, free).Return(assigned, nil)
	m.gw.EXPECT().PublishAssignment(ctx, gomock.Any()).Return(nil)

	require.NoError(t, uc.RequestMatch(ctx, booking.ID))
}

func TestRequestMatchNoCandidates(t *testing.T) {
	uc, m := newCoordinatorForTest(t)
	ctx := context.Background()

	booking := pendingBooking()

	m.bookingUC.EXPECT().GetBooking(ctx, booking.ID).Return(booking, nil)
	m.driverUC.EXPECT().FindAvailable(ctx, gomock.Any()).Return(nil, nil)

	err := uc.RequestMatch(ctx, booking.ID)
	assert.ErrorIs(t, err, apperrors.ErrNoDriverAvailable)
}

func TestRequestMatchHonorsCandidateBudget(t *testing.T) {
	uc, m := newCoordinatorForTest(t)
	ctx := context.Background()

	booking := pendingBooking()
	candidates := make([]models.NearbyDriver, 0, 7)
	for i := 0; i < 7; i++ {
		candidates = append(candidates, models.NearbyDriver{
			ID:       uuid.New().String(),
			Distance: float64(i),
		})
	}

	m.bookingUC.EXPECT().GetBooking(ctx, booking.ID).Return(booking, nil)
	m.driverUC.EXPECT().FindAvailable(ctx, gomock.Any()).Return(candidates, nil)
	// Every reserve loses the race; only the first five are attempted.
	m.driverUC.EXPECT().Reserve(ctx, gomock.Any(), booking.ID).
		Return(apperrors.ErrAlreadyAssigned).Times(5)

	err := uc.RequestMatch(ctx, booking.ID)
	assert.ErrorIs(t, err, apperrors.ErrNoDriverAvailable)
}

func TestRequestMatchReleasesDriverWhenBookingLeftPending(t *testing.T) {
	uc, m := newCoordinatorForTest(t)
	ctx := context.Background()

	booking := pendingBooking()
	driverID := uuid.New()

	m.bookingUC.EXPECT().GetBooking(ctx, booking.ID).Return(booking, nil)
	m.driverUC.EXPECT().FindAvailable(ctx, gomock.Any()).Return([]models.NearbyDriver{
		{ID: driverID.String(), Distance: 0.4},
	}, nil)
	m.driverUC.EXPECT().Reserve(ctx, driverID, booking.ID).Return(nil)
	// The customer cancelled while the reserve was in flight.
	m.bookingUC.EXPECT().Assign(ctx, booking.ID, driverID).
		Return(nil, apperrors.ErrInvalidTransition)
	m.driverUC.EXPECT().Release(ctx, driverID, booking.ID).Return(nil)

	require.NoError(t, uc.RequestMatch(ctx, booking.ID))
}

func TestOnAcceptPublishesLifecycleEvent(t *testing.T) {
	uc, m := newCoordinatorForTest(t)
	ctx := context.Background()

	driverID := uuid.New()
	accepted := assignedFrom(pendingBooking(), driverID)
	accepted.Status = models.BookingStatusAccepted

	m.bookingUC.EXPECT().Accept(ctx, accepted.ID, driverID).Return(accepted, nil)
	m.gw.EXPECT().PublishBookingEvent(ctx, constants.SubjectBookingAccepted, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, event models.BookingEvent) error {
			assert.Equal(t, accepted.ID.String(), event.BookingID)
			assert.Equal(t, driverID.String(), event.DriverID)
			assert.Equal(t, models.BookingStatusAccepted, event.Status)
			return nil
		})

	booking, err := uc.OnAccept(ctx, accepted.ID, driverID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusAccepted, booking.Status)
}

func TestOnAcceptPropagatesStaleState(t *testing.T) {
	uc, m := newCoordinatorForTest(t)
	ctx := context.Background()

	bookingID := uuid.New()
	driverID := uuid.New()

	m.bookingUC.EXPECT().Accept(ctx, bookingID, driverID).
		Return(nil, apperrors.ErrStaleState)

	_, err := uc.OnAccept(ctx, bookingID, driverID)
	assert.ErrorIs(t, err, apperrors.ErrStaleState)
}

func TestOnDeclineReleasesAndRematches(t *testing.T) {
	uc, m := newCoordinatorForTest(t)
	ctx := context.Background()

	first := uuid.New()
	second := uuid.New()

	requeued := pendingBooking()
	requeued.Reassignments = 1
	reassigned := assignedFrom(requeued, second)

	m.bookingUC.EXPECT().Decline(ctx, requeued.ID, first).Return(requeued, nil)
	m.driverUC.EXPECT().Release(ctx, first, requeued.ID).Return(nil)
	m.gw.EXPECT().PublishBookingEvent(ctx, constants.SubjectBookingDeclined, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, event models.BookingEvent) error {
			assert.Equal(t, "declined", event.Reason)
			return nil
		})

	// Rematch picks up the next nearest driver.
	m.bookingUC.EXPECT().GetBooking(ctx, requeued.ID).Return(requeued, nil)
	m.driverUC.EXPECT().FindAvailable(ctx, gomock.Any()).Return([]models.NearbyDriver{
		{ID: second.String(), Distance: 0.9},
	}, nil)
	m.driverUC.EXPECT().Reserve(ctx, second, requeued.ID).Return(nil)
	m.bookingUC.EXPECT().Assign(ctx, requeued.ID, second).Return(reassigned, nil)
	m.gw.EXPECT().PublishAssignment(ctx, gomock.Any()).Return(nil)

	booking, err := uc.OnDecline(ctx, requeued.ID, first)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
}

func TestOnDeclineCancelsAfterReassignmentCap(t *testing.T) {
	uc, m := newCoordinatorForTest(t)
	ctx := context.Background()

	driverID := uuid.New()
	requeued := pendingBooking()
	requeued.Reassignments = 3

	cancelled := requeued.Clone()
	cancelled.Status = models.BookingStatusCancelled
	cancelled.CancelReason = models.CancelReasonNoDriverAvailable

	m.bookingUC.EXPECT().Decline(ctx, requeued.ID, driverID).Return(requeued, nil)
	m.driverUC.EXPECT().Release(ctx, driverID, requeued.ID).Return(nil)
	m.gw.EXPECT().PublishBookingEvent(ctx, constants.SubjectBookingDeclined, gomock.Any()).Return(nil)
	m.bookingUC.EXPECT().Cancel(ctx, requeued.ID, models.CancelReasonNoDriverAvailable).
		Return(cancelled, nil)
	m.gw.EXPECT().PublishBookingEvent(ctx, constants.SubjectBookingCancelled, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, event models.BookingEvent) error {
			assert.Equal(t, string(models.CancelReasonNoDriverAvailable), event.Reason)
			return nil
		})

	_, err := uc.OnDecline(ctx, requeued.ID, driverID)
	require.NoError(t, err)
}

func TestOnDeclineStaysPendingWhenNoDriverAvailable(t *testing.T) {
	uc, m := newCoordinatorForTest(t)
	ctx := context.Background()

	driverID := uuid.New()
	requeued := pendingBooking()
	requeued.Reassignments = 1

	m.bookingUC.EXPECT().Decline(ctx, requeued.ID, driverID).Return(requeued, nil)
	m.driverUC.EXPECT().Release(ctx, driverID, requeued.ID).Return(nil)
	m.gw.EXPECT().PublishBookingEvent(ctx, constants.SubjectBookingDeclined, gomock.Any()).Return(nil)
	m.bookingUC.EXPECT().GetBooking(ctx, requeued.ID).Return(requeued, nil)
	m.driverUC.EXPECT().FindAvailable(ctx, gomock.Any()).Return(nil, nil)

	_, err := uc.OnDecline(ctx, requeued.ID, driverID)
	require.NoError(t, err)
}

func TestOnTimeoutReleasesAssignedDriver(t *testing.T) {
	uc, m := newCoordinatorForTest(t)
	ctx := context.Background()

	driverID := uuid.New()
	assigned := assignedFrom(pendingBooking(), driverID)

	requeued := assigned.Clone()
	requeued.DriverID = nil
	requeued.Status = models.BookingStatusPending
	requeued.Reassignments = 1

	m.bookingUC.EXPECT().GetBooking(ctx, assigned.ID).Return(assigned, nil)
	m.bookingUC.EXPECT().DeclineExpired(ctx, assigned.ID, gomock.Any()).Return(requeued, nil)
	m.driverUC.EXPECT().Release(ctx, driverID, assigned.ID).Return(nil)
	m.gw.EXPECT().PublishBookingEvent(ctx, constants.SubjectBookingDeclined, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, event models.BookingEvent) error {
			assert.Equal(t, "accept_timeout", event.Reason)
			return nil
		})

	// No replacement driver around, the booking stays pending.
	m.bookingUC.EXPECT().GetBooking(ctx, assigned.ID).Return(requeued, nil)
	m.driverUC.EXPECT().FindAvailable(ctx, gomock.Any()).Return(nil, nil)

	require.NoError(t, uc.OnTimeout(ctx, assigned.ID))
}

func TestOnTimeoutLosesToAccept(t *testing.T) {
	uc, m := newCoordinatorForTest(t)
	ctx := context.Background()

	driverID := uuid.New()
	accepted := assignedFrom(pendingBooking(), driverID)
	accepted.Status = models.BookingStatusAccepted

	m.bookingUC.EXPECT().GetBooking(ctx, accepted.ID).Return(accepted, nil)
	// The accept won the race, the sweep's decline is a no-op.
	m.bookingUC.EXPECT().DeclineExpired(ctx, accepted.ID, gomock.Any()).
		Return(nil, apperrors.ErrStaleState)

	require.NoError(t, uc.OnTimeout(ctx, accepted.ID))
}

func TestOnStartPublishesLifecycleEvent(t *testing.T) {
	uc, m := newCoordinatorForTest(t)
	ctx := context.Background()

	driverID := uuid.New()
	inRide := assignedFrom(pendingBooking(), driverID)
	inRide.Status = models.BookingStatusInRide

	m.bookingUC.EXPECT().Start(ctx, inRide.ID, driverID).Return(inRide, nil)
	m.gw.EXPECT().PublishBookingEvent(ctx, constants.SubjectBookingStarted, gomock.Any()).Return(nil)

	booking, err := uc.OnStart(ctx, inRide.ID, driverID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusInRide, booking.Status)
}

func TestOnCompleteFreesDriver(t *testing.T) {
	uc, m := newCoordinatorForTest(t)
	ctx := context.Background()

	driverID := uuid.New()
	completed := assignedFrom(pendingBooking(), driverID)
	completed.Status = models.BookingStatusCompleted

	m.bookingUC.EXPECT().Complete(ctx, completed.ID, driverID).Return(completed, nil)
	m.driverUC.EXPECT().Release(ctx, driverID, completed.ID).Return(nil)
	m.gw.EXPECT().PublishBookingEvent(ctx, constants.SubjectBookingCompleted, gomock.Any()).Return(nil)

	booking, err := uc.OnComplete(ctx, completed.ID, driverID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, booking.Status)
}

func TestOnCancelRejectsOtherCustomer(t *testing.T) {
	uc, m := newCoordinatorForTest(t)
	ctx := context.Background()

	booking := pendingBooking()
	m.bookingUC.EXPECT().GetBooking(ctx, booking.ID).Return(booking, nil)

	_, err := uc.OnCancel(ctx, booking.ID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotYourBooking)
}

func TestOnCancelReleasesReservedDriver(t *testing.T) {
	uc, m := newCoordinatorForTest(t)
	ctx := context.Background()

	driverID := uuid.New()
	assigned := assignedFrom(pendingBooking(), driverID)

	cancelled := assigned.Clone()
	cancelled.Status = models.BookingStatusCancelled
	cancelled.CancelReason = models.CancelReasonCustomer

	m.bookingUC.EXPECT().GetBooking(ctx, assigned.ID).Return(assigned, nil)
	m.bookingUC.EXPECT().Cancel(ctx, assigned.ID, models.CancelReasonCustomer).
		Return(cancelled, nil)
	m.driverUC.EXPECT().Release(ctx, driverID, assigned.ID).Return(nil)
	m.gw.EXPECT().PublishBookingEvent(ctx, constants.SubjectBookingCancelled, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, event models.BookingEvent) error {
			assert.Equal(t, string(models.CancelReasonCustomer), event.Reason)
			return nil
		})

	booking, err := uc.OnCancel(ctx, assigned.ID, assigned.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, booking.Status)
}

func TestOnCancelPendingSkipsRelease(t *testing.T) {
	uc, m := newCoordinatorForTest(t)
	ctx := context.Background()

	booking := pendingBooking()
	cancelled := booking.Clone()
	cancelled.Status = models.BookingStatusCancelled
	cancelled.CancelReason = models.CancelReasonCustomer

	m.bookingUC.EXPECT().GetBooking(ctx, booking.ID).Return(booking, nil)
	m.bookingUC.EXPECT().Cancel(ctx, booking.ID, models.CancelReasonCustomer).
		Return(cancelled, nil)
	m.gw.EXPECT().PublishBookingEvent(ctx, constants.SubjectBookingCancelled, gomock.Any()).Return(nil)

	_, err := uc.OnCancel(ctx, booking.ID, booking.CustomerID)
	require.NoError(t, err)
}

func TestRematchPendingContinuesPastUnmatchable(t *testing.T) {
	uc, m := newCoordinatorForTest(t)
	ctx := context.Background()

	unmatchable := pendingBooking()
	matchable := pendingBooking()
	driverID := uuid.New()
	assigned := assignedFrom(matchable, driverID)

	m.bookingUC.EXPECT().ListPending(ctx).Return([]*models.Booking{unmatchable, matchable}, nil)

	m.bookingUC.EXPECT().GetBooking(ctx, unmatchable.ID).Return(unmatchable, nil)
	m.driverUC.EXPECT().FindAvailable(ctx, gomock.Any()).Return(nil, nil)

	m.bookingUC.EXPECT().GetBooking(ctx, matchable.ID).Return(matchable, nil)
	m.driverUC.EXPECT().FindAvailable(ctx, gomock.Any()).Return([]models.NearbyDriver{
		{ID: driverID.String(), Distance: 0.5},
	}, nil)
	m.driverUC.EXPECT().Reserve(ctx, driverID, matchable.ID).Return(nil)
	m.bookingUC.EXPECT().Assign(ctx, matchable.ID, driverID).Return(assigned, nil)
	m.gw.EXPECT().PublishAssignment(ctx, gomock.Any()).Return(nil)

	require.NoError(t, uc.RematchPending(ctx))
}
