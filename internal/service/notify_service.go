package service

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"adria/internal/entities"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

const emailTimeLayout = "02 Jan 2006 15:04 MST"

// NotifyService sends booking notifications through SendGrid dynamic
// templates, with an optional Twilio SMS mirror when the booking carries a
// phone number. All sends are fire-and-forget; a failure is logged and never
// blocks the booking flow.
type NotifyService struct {
	Loc *time.Location
}

func NewNotifyService(loc *time.Location) *NotifyService {
	return &NotifyService{Loc: loc}
}

func (s *NotifyService) ReservationConfirmed(res entities.ReservationResponse) {
	data := s.emailData(res)
	go func() {
		if err := sendTemplateEmail(res.UserEmail, res.UserName, os.Getenv("SENDGRID_TEMPLATE_CONFIRMATION"), data); err != nil {
			log.Printf("ALERT: confirmation email for %s failed: %v", res.Reference, err)
		}
	}()
	if res.UserPhone != "" {
		go func() {
			body := fmt.Sprintf("Adria Studio: your booking %s is confirmed for %s. Details in your email.",
				res.Reference, res.StartTime.In(s.Loc).Format("02/01 15:04"))
			if err := sendSMS(res.UserPhone, body); err != nil {
				log.Printf("ALERT: booking %s created, but confirmation SMS to %s failed: %v", res.Reference, res.UserPhone, err)
			}
		}()
	}
}

func (s *NotifyService) ReservationStatusChanged(res entities.ReservationResponse) {
	data := s.emailData(res)
	go func() {
		if err := sendTemplateEmail(res.UserEmail, res.UserName, os.Getenv("SENDGRID_TEMPLATE_STATUS"), data); err != nil {
			log.Printf("ALERT: status email for %s failed: %v", res.Reference, err)
		}
	}()
}

func (s *NotifyService) emailData(res entities.ReservationResponse) entities.ReservationEmailData {
	return entities.ReservationEmailData{
		UserName:     res.UserName,
		Reference:    res.Reference,
		SlotStart:    res.StartTime.In(s.Loc).Format(emailTimeLayout),
		SlotEnd:      res.EndTime.In(s.Loc).Format(emailTimeLayout),
		Status:       res.Status,
		StatusReason: res.StatusReason,
	}
}

func sendTemplateEmail(toEmail, toName, templateID string, data entities.ReservationEmailData) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		log.Println("WARNING: SENDGRID_API_KEY not set, skipping email")
		return fmt.Errorf("SENDGRID_API_KEY not set")
	}
	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if fromEmail == "" {
		log.Println("WARNING: SENDGRID_FROM_EMAIL not set, skipping email")
		return fmt.Errorf("SENDGRID_FROM_EMAIL not set")
	}
	if templateID == "" {
		return fmt.Errorf("SendGrid template ID not set")
	}
	fromName := os.Getenv("SENDGRID_FROM_NAME")
	if fromName == "" {
		fromName = "Adria Studio"
	}

	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(fromName, fromEmail))
	m.SetTemplateID(templateID)

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(toName, toEmail))
	p.SetDynamicTemplateData("user_name", data.UserName)
	p.SetDynamicTemplateData("reference", data.Reference)
	p.SetDynamicTemplateData("slot_start", data.SlotStart)
	p.SetDynamicTemplateData("slot_end", data.SlotEnd)
	p.SetDynamicTemplateData("status", data.Status)
	p.SetDynamicTemplateData("status_reason", data.StatusReason)
	m.AddPersonalizations(p)

	client := sendgrid.NewSendClient(apiKey)
	response, err := client.Send(m)
	if err != nil {
		return fmt.Errorf("sending email via SendGrid: %w", err)
	}
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		log.Printf("Email sent to %s (reference %s), status %d", toEmail, data.Reference, response.StatusCode)
		return nil
	}
	return fmt.Errorf("SendGrid returned status %d: %s", response.StatusCode, response.Body)
}

func sendSMS(toNumber, messageBody string) error {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	fromNumber := os.Getenv("TWILIO_FROM_NUMBER")

	if accountSid == "" || authToken == "" || fromNumber == "" {
		log.Println("WARNING: Twilio credentials not fully configured, skipping SMS")
		return fmt.Errorf("twilio credentials not configured")
	}
	if !strings.HasPrefix(toNumber, "+") {
		log.Printf("WARNING: destination number %q is not E.164, the SMS may fail", toNumber)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSid,
		Password:   authToken,
		AccountSid: accountSid,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(fromNumber)
	params.SetBody(messageBody)

	resp, err := client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("sending SMS: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		log.Printf("SMS sent to %s, message SID %s", toNumber, *resp.Sid)
	}
	return nil
}
