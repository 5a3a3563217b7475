package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"parkease/internal/config"
	"parkease/internal/db"
)

// NotifyService sends booking and release confirmations by email and SMS.
// Delivery is best effort: missing credentials or provider failures are
// logged, never surfaced to the caller.
type NotifyService struct {
	cfg *config.Config
}

func NewNotifyService(cfg *config.Config) *NotifyService {
	return &NotifyService{cfg: cfg}
}

func (s *NotifyService) BookingConfirmed(user *db.User, lot *db.ParkingLot, spot *db.ParkingSpot, res *db.Reservation) {
	subject := fmt.Sprintf("Parking spot #%d booked at %s", spot.SpotNumber, lot.Name)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour parking spot is booked.\n\n"+
			"Lot: %s, %s\n"+
			"Spot number: %d\n"+
			"Vehicle: %s\n"+
			"Parked since: %s\n"+
			"Rate: %.2f per hour\n\n"+
			"Thank you for choosing ParkEase.",
		user.Name, lot.Name, lot.Address, spot.SpotNumber, res.VehicleNumber,
		res.StartTime.Format("02 Jan 2006 15:04 MST"), lot.PricePerHour,
	)
	s.sendEmail(user.Username, user.Name, subject, body)
	s.sendSMS(user.Phone, fmt.Sprintf("ParkEase: spot #%d at %s booked for %s.",
		spot.SpotNumber, lot.Name, res.VehicleNumber))
}

func (s *NotifyService) ReservationReleased(user *db.User, lot *db.ParkingLot, spot *db.ParkingSpot, res *db.Reservation) {
	cost := 0.0
	if res.Cost.Valid {
		cost = res.Cost.Float64
	}
	subject := fmt.Sprintf("Parking spot #%d released at %s", spot.SpotNumber, lot.Name)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour parking spot has been released.\n\n"+
			"Lot: %s, %s\n"+
			"Spot number: %d\n"+
			"Vehicle: %s\n"+
			"Total cost: %.2f\n\n"+
			"Thank you for choosing ParkEase.",
		user.Name, lot.Name, lot.Address, spot.SpotNumber, res.VehicleNumber, cost,
	)
	s.sendEmail(user.Username, user.Name, subject, body)
	s.sendSMS(user.Phone, fmt.Sprintf("ParkEase: spot #%d at %s released. Total cost %.2f.",
		spot.SpotNumber, lot.Name, cost))
}

func (s *NotifyService) sendEmail(toAddress, toName, subject, plainTextBody string) {
	if s.cfg.SendgridAPIKey == "" || s.cfg.SendgridFromEmail == "" {
		log.Println("SendGrid not configured; skipping confirmation email")
		return
	}

	from := mail.NewEmail(s.cfg.SendgridFromName, s.cfg.SendgridFromEmail)
	to := mail.NewEmail(toName, toAddress)
	message := mail.NewSingleEmail(from, subject, to, plainTextBody, "")

	client := sendgrid.NewSendClient(s.cfg.SendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", toAddress, err)
		return
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		log.Printf("SendGrid returned status %d for %s: %s", response.StatusCode, toAddress, response.Body)
		return
	}
	log.Printf("Confirmation email sent to %s (subject: %s)", toAddress, subject)
}

func (s *NotifyService) sendSMS(toNumber, messageBody string) {
	if s.cfg.TwilioAccountSID == "" || s.cfg.TwilioAuthToken == "" || s.cfg.TwilioFromNumber == "" {
		log.Println("Twilio not configured; skipping confirmation SMS")
		return
	}
	if !strings.HasPrefix(toNumber, "+") {
		log.Printf("Warning: destination number '%s' is not in E.164 format, SMS may fail", toNumber)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: s.cfg.TwilioAccountSID,
		Password: s.cfg.TwilioAuthToken,
	})
	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(s.cfg.TwilioFromNumber)
	params.SetBody(messageBody)

	if _, err := client.Api.CreateMessage(params); err != nil {
		log.Printf("Error sending SMS to %s: %v", toNumber, err)
		return
	}
	log.Printf("Confirmation SMS sent to %s", toNumber)
}
