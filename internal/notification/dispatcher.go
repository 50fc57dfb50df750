package notification

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/m04kA/RC-BookingService/internal/domain"
	"github.com/m04kA/RC-BookingService/internal/integrations/mailer"
	"github.com/m04kA/RC-BookingService/pkg/ptr"
)

const (
	dateLayout   = "02/01/2006"
	timeLayout   = "15:04"
	fallbackName = "Client"
)

// Dispatcher отправляет письма клиентам после коммита транзакции
// Отправка выполняется в отдельной горутине: ошибки логируются и не влияют на ответ API
type Dispatcher struct {
	mailer      Mailer
	users       UserRepository
	services    ServiceRepository
	location    *time.Location
	frontendURL string
	timeout     time.Duration
	logger      Logger

	wg sync.WaitGroup
}

// NewDispatcher создает диспетчер уведомлений
func NewDispatcher(
	mailer Mailer,
	users UserRepository,
	services ServiceRepository,
	location *time.Location,
	frontendURL string,
	timeout time.Duration,
	logger Logger,
) *Dispatcher {
	return &Dispatcher{
		mailer:      mailer,
		users:       users,
		services:    services,
		location:    location,
		frontendURL: frontendURL,
		timeout:     timeout,
		logger:      logger,
	}
}

// NotifyBooking отправляет письмо владельцу бронирования
func (d *Dispatcher) NotifyBooking(ctx context.Context, kind domain.NotificationKind, booking domain.Booking) {
	var tmpl mailTemplate
	switch kind {
	case domain.NotificationConfirmation:
		tmpl = bookingConfirmationTemplate
	case domain.NotificationModification:
		tmpl = bookingModificationTemplate
	case domain.NotificationCancellation:
		tmpl = bookingCancellationTemplate
	default:
		return
	}

	d.dispatch(ctx, fmt.Sprintf("booking id=%d %s", booking.ID, kind), func(ctx context.Context) (mailer.Message, error) {
		user, err := d.users.GetByID(ctx, booking.UserID)
		if err != nil {
			return mailer.Message{}, fmt.Errorf("load user id=%d: %w", booking.UserID, err)
		}

		data := d.bookingData(ctx, user, booking)
		return render(tmpl, user.Email, data)
	})
}

// NotifyWelcome отправляет приветственное письмо после регистрации
func (d *Dispatcher) NotifyWelcome(ctx context.Context, user domain.User) {
	d.dispatch(ctx, fmt.Sprintf("user id=%d welcome", user.ID), func(context.Context) (mailer.Message, error) {
		data := mailData{
			UserName:    nameOrFallback(user.FirstName),
			UserEmail:   user.Email,
			FrontendURL: d.frontendURL,
		}
		return render(welcomeTemplate, user.Email, data)
	})
}

// NotifyAppointment отправляет письмо клиенту встречи
func (d *Dispatcher) NotifyAppointment(ctx context.Context, kind domain.NotificationKind, appointment domain.Appointment) {
	var tmpl mailTemplate
	switch kind {
	case domain.NotificationConfirmation:
		tmpl = appointmentConfirmationTemplate
	case domain.NotificationCancellation:
		tmpl = appointmentCancellationTemplate
	default:
		return
	}

	d.dispatch(ctx, fmt.Sprintf("appointment id=%d %s", appointment.ID, kind), func(context.Context) (mailer.Message, error) {
		at := appointment.AppointmentDate.In(d.location)
		data := mailData{
			UserName:    nameOrFallback(appointment.ClientName),
			UserEmail:   appointment.ClientEmail,
			Date:        at.Format(dateLayout),
			Time:        at.Format(timeLayout),
			FrontendURL: d.frontendURL,
			Reference:   appointment.ID,
		}
		return render(tmpl, appointment.ClientEmail, data)
	})
}

// Wait ожидает завершения отправки всех писем (graceful shutdown)
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) dispatch(ctx context.Context, what string, build func(ctx context.Context) (mailer.Message, error)) {
	// Контекст запроса отменяется после ответа, письмо должно пережить его
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer cancel()

		msg, err := build(sendCtx)
		if err != nil {
			d.logger.Warn("Notification: %s - failed to build mail: %v", what, err)
			return
		}
		if err := d.mailer.Send(sendCtx, msg); err != nil {
			d.logger.Error("Notification: %s - failed to send mail to=%s: %v", what, msg.To, err)
			return
		}
		d.logger.Info("Notification: %s - mail sent to=%s", what, msg.To)
	}()
}

func (d *Dispatcher) bookingData(ctx context.Context, user *domain.User, booking domain.Booking) mailData {
	start := booking.StartAt.In(d.location)
	data := mailData{
		UserName:     nameOrFallback(user.FirstName),
		UserEmail:    user.Email,
		Date:         start.Format(dateLayout),
		Time:         start.Format(timeLayout),
		VehicleType:  ptr.Value(booking.VehicleType),
		LicensePlate: ptr.Value(booking.LicensePlate),
		Price:        strconv.FormatFloat(booking.TotalPrice, 'f', 2, 64) + " €",
		FrontendURL:  d.frontendURL,
		Reference:    booking.ID,
	}

	switch {
	case booking.ServiceTitle != nil:
		data.Service = *booking.ServiceTitle
	default:
		service, err := d.services.GetByID(ctx, booking.ServiceID)
		if err != nil {
			d.logger.Warn("Notification: booking id=%d - service id=%d not loaded: %v", booking.ID, booking.ServiceID, err)
			break
		}
		data.Service = service.Title
	}
	return data
}

func render(tmpl mailTemplate, to string, data mailData) (mailer.Message, error) {
	if to == "" {
		return mailer.Message{}, errors.New("recipient has no email")
	}
	subject, text, html, err := tmpl.render(data)
	if err != nil {
		return mailer.Message{}, fmt.Errorf("render template: %w", err)
	}
	return mailer.Message{To: to, Subject: subject, Text: text, HTML: html}, nil
}

func nameOrFallback(name string) string {
	if name == "" {
		return fallbackName
	}
	return name
}
