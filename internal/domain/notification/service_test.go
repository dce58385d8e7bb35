package notification_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"alertdispatch/internal/domain/notification"
	notificationmocks "alertdispatch/internal/domain/notification/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

func TestServiceSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ServiceTestSuite))
}

type ServiceTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	whatsapp *notificationmocks.MockSender
	telegram *notificationmocks.MockSender
	viber    *notificationmocks.MockSender
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.whatsapp = s.newSender(notification.ChannelWhatsApp)
	s.telegram = s.newSender(notification.ChannelTelegram)
	s.viber = s.newSender(notification.ChannelViber)
}

func (s *ServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceTestSuite) newSender(ch notification.Channel) *notificationmocks.MockSender {
	m := notificationmocks.NewMockSender(s.ctrl)
	m.EXPECT().Channel().Return(ch).AnyTimes()
	return m
}

func (s *ServiceTestSuite) newService(cfg notification.ServiceConfig) *notification.Service {
	return notification.NewService(cfg, s.whatsapp, s.telegram, s.viber)
}

func expiryRequest(channels ...notification.Channel) notification.Request {
	return notification.NewRequest(notification.Request{
		RecipientPhoneNumber: "+15550001",
		TelegramChatID:       "12345",
		ViberUserID:          "viber-user",
		ExpiryDate:           time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
		Channels:             channels,
	})
}

func (s *ServiceTestSuite) TestDispatch_EmptyChannelsCallsNoSender() {
	svc := s.newService(notification.ServiceConfig{})

	outcome := svc.Dispatch(context.Background(), expiryRequest())

	s.False(outcome.AnySucceeded)
	s.NotNil(outcome.Results)
	s.Empty(outcome.Results)
}

func (s *ServiceTestSuite) TestDispatch_UnregisteredChannelIsSkipped() {
	svc := s.newService(notification.ServiceConfig{})

	outcome := svc.Dispatch(context.Background(), expiryRequest(notification.ChannelSMS))

	s.False(outcome.AnySucceeded)
	s.Require().Len(outcome.Results, 1)
	s.Equal(notification.StatusSkipped, outcome.Results[0].Status)
}

func (s *ServiceTestSuite) TestDispatch_AtLeastOneSuccess() {
	req := expiryRequest(notification.ChannelTelegram, notification.ChannelViber)

	gomock.InOrder(
		s.telegram.EXPECT().Send(gomock.Any(), req).Return(true).Times(1),
		s.viber.EXPECT().Send(gomock.Any(), req).Return(false).Times(1),
	)

	outcome := s.newService(notification.ServiceConfig{}).Dispatch(context.Background(), req)

	s.True(outcome.AnySucceeded)
	s.Equal([]notification.ChannelResult{
		{Channel: notification.ChannelTelegram, Status: notification.StatusSent},
		{Channel: notification.ChannelViber, Status: notification.StatusFailed},
	}, outcome.Results)
}

func (s *ServiceTestSuite) TestDispatch_SingleFailureFailsOverall() {
	req := expiryRequest(notification.ChannelWhatsApp)
	s.whatsapp.EXPECT().Send(gomock.Any(), req).Return(false)

	outcome := s.newService(notification.ServiceConfig{}).Dispatch(context.Background(), req)

	s.False(outcome.AnySucceeded)
	s.Equal([]notification.ChannelResult{
		{Channel: notification.ChannelWhatsApp, Status: notification.StatusFailed},
	}, outcome.Results)
}

func (s *ServiceTestSuite) TestDispatch_PanickingSenderDoesNotAbort() {
	req := expiryRequest(notification.ChannelViber, notification.ChannelSMS, notification.ChannelTelegram)

	gomock.InOrder(
		s.viber.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, notification.Request) bool {
			panic("provider client exploded")
		}),
		s.telegram.EXPECT().Send(gomock.Any(), gomock.Any()).Return(true),
	)

	outcome := s.newService(notification.ServiceConfig{}).Dispatch(context.Background(), req)

	s.True(outcome.AnySucceeded)
	s.Equal([]notification.ChannelResult{
		{Channel: notification.ChannelViber, Status: notification.StatusFailed},
		{Channel: notification.ChannelSMS, Status: notification.StatusSkipped},
		{Channel: notification.ChannelTelegram, Status: notification.StatusSent},
	}, outcome.Results)
}

func (s *ServiceTestSuite) TestDispatch_AppliesDeadline() {
	req := expiryRequest(notification.ChannelTelegram)
	s.telegram.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ notification.Request) bool {
		_, ok := ctx.Deadline()
		return ok
	})

	outcome := s.newService(notification.ServiceConfig{Timeout: 5 * time.Second}).Dispatch(context.Background(), req)

	s.True(outcome.AnySucceeded)
}

func (s *ServiceTestSuite) TestDispatch_ParallelKeepsRequestOrder() {
	req := expiryRequest(notification.ChannelWhatsApp, notification.ChannelTelegram, notification.ChannelViber)

	s.whatsapp.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, notification.Request) bool {
		time.Sleep(20 * time.Millisecond)
		return false
	})
	s.telegram.EXPECT().Send(gomock.Any(), gomock.Any()).Return(false)
	s.viber.EXPECT().Send(gomock.Any(), gomock.Any()).Return(true)

	outcome := s.newService(notification.ServiceConfig{Parallel: true}).Dispatch(context.Background(), req)

	s.True(outcome.AnySucceeded)
	s.Equal([]notification.ChannelResult{
		{Channel: notification.ChannelWhatsApp, Status: notification.StatusFailed},
		{Channel: notification.ChannelTelegram, Status: notification.StatusFailed},
		{Channel: notification.ChannelViber, Status: notification.StatusSent},
	}, outcome.Results)
}

// countingSender mutates the channel list it receives to prove each attempt gets its own copy.
type countingSender struct {
	channel notification.Channel
	calls   atomic.Int32
}

func (c *countingSender) Channel() notification.Channel { return c.channel }

func (c *countingSender) Send(_ context.Context, req notification.Request) bool {
	c.calls.Add(1)
	req.Channels[0] = notification.ChannelSMS
	return true
}

func TestDispatch_ParallelSendersDoNotShareRequest(t *testing.T) {
	t.Parallel()

	a := &countingSender{channel: notification.ChannelTelegram}
	b := &countingSender{channel: notification.ChannelViber}
	svc := notification.NewService(notification.ServiceConfig{Parallel: true}, a, b)

	req := expiryRequest(notification.ChannelTelegram, notification.ChannelViber)
	outcome := svc.Dispatch(context.Background(), req)

	require.True(t, outcome.AnySucceeded)
	assert.Equal(t, int32(1), a.calls.Load())
	assert.Equal(t, int32(1), b.calls.Load())
	assert.Equal(t, notification.ChannelTelegram, req.Channels[0])
}

func TestNewService_LaterSenderWins(t *testing.T) {
	t.Parallel()

	first := &countingSender{channel: notification.ChannelViber}
	second := &countingSender{channel: notification.ChannelViber}
	svc := notification.NewService(notification.ServiceConfig{}, first, second)

	outcome := svc.Dispatch(context.Background(), notification.NewRequest(notification.Request{
		Channels: []notification.Channel{notification.ChannelViber, notification.ChannelEmail},
	}))

	assert.Equal(t, []notification.ChannelResult{
		{Channel: notification.ChannelViber, Status: notification.StatusSent},
		{Channel: notification.ChannelEmail, Status: notification.StatusSkipped},
	}, outcome.Results)
	assert.Equal(t, int32(0), first.calls.Load())
	assert.Equal(t, int32(1), second.calls.Load())
}
