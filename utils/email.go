package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"os"
	"strconv"

	jwemail "github.com/jordan-wright/email"
	"gopkg.in/gomail.v2"
)

// BookingConfirmationData dữ liệu cho template email
type BookingConfirmationData struct {
	BookingId     uint
	CustomerName  string
	StartDate     string
	TotalPrice    float64
	PaidAmount    float64
	PaymentMethod string
}

// SendBookingConfirmationEmail gửi email xác nhận booking (async)
func SendBookingConfirmationEmail(to string, data BookingConfirmationData) {
	go func() { // Async để không delay response
		tmplPath := "templates/booking_confirmation.html"
		tmpl, err := template.ParseFiles(tmplPath)
		if err != nil {
			log.Printf("Lỗi load template email: %v", err)
			return
		}

		var body bytes.Buffer
		if err := tmpl.Execute(&body, data); err != nil {
			log.Printf("Lỗi render template email: %v", err)
			return
		}

		host := os.Getenv("SMTP_HOST")
		portStr := os.Getenv("SMTP_PORT")
		username := os.Getenv("SMTP_USERNAME")
		password := os.Getenv("SMTP_PASSWORD")
		from := os.Getenv("SMTP_FROM")

		port, _ := strconv.Atoi(portStr)

		m := gomail.NewMessage()
		m.SetHeader("From", from)
		m.SetHeader("To", to)
		m.SetHeader("Subject", fmt.Sprintf("Xác nhận booking #%d", data.BookingId))
		m.SetBody("text/html", body.String())

		d := gomail.NewDialer(host, port, username, password)
		if err := d.DialAndSend(m); err != nil {
			log.Printf("Lỗi gửi email: %v", err)
		}
	}()
}

// SendWelcomeEmail gửi email chào mừng kèm mã voucher tân khách (async)
func SendWelcomeEmail(to, fullName, voucherCode string) {
	go func() {
		host := os.Getenv("SMTP_HOST")
		portStr := os.Getenv("SMTP_PORT")
		username := os.Getenv("SMTP_USERNAME")
		password := os.Getenv("SMTP_PASSWORD")
		from := os.Getenv("SMTP_FROM")

		e := jwemail.NewEmail()
		e.From = from
		e.To = []string{to}
		e.Subject = "Chào mừng bạn đến với Saigon Travel"
		body := fmt.Sprintf("Xin chào %s,\n\nCảm ơn bạn đã đăng ký tài khoản tại Saigon Travel.", fullName)
		if voucherCode != "" {
			body += fmt.Sprintf("\n\nTặng bạn mã giảm giá %s cho chuyến đi đầu tiên!", voucherCode)
		}
		e.Text = []byte(body)

		addr := host + ":" + portStr
		if err := e.Send(addr, smtp.PlainAuth("", username, password, host)); err != nil {
			log.Printf("Lỗi gửi email chào mừng: %v", err)
		}
	}()
}
