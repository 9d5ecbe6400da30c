package service

import (
	"fmt"

	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

// Mailer sends transactional mail over SMTP. It implements MemberNotifier
// and covers the email leg of OTP delivery.
type Mailer struct {
	host     string
	port     int
	from     string
	fromName string
	password string
}

func NewMailer() *Mailer {
	return &Mailer{
		host:     viper.GetString("mail.host"),
		port:     viper.GetInt("mail.port"),
		from:     viper.GetString("mail.sender_address"),
		fromName: viper.GetString("mail.sender_name"),
		password: viper.GetString("mail.password"),
	}
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.host, m.port, m.from, m.password)

	return d.DialAndSend(msg)
}

func (m *Mailer) SendOTPEmail(to, code string) error {
	body := fmt.Sprintf(`<div style="font-family:Arial,sans-serif">
<h2>Community Registration</h2>
<p>Hello,</p>
<p>Your One-Time Password (OTP) is:</p>
<h1 style="letter-spacing:4px">%s</h1>
<p>This OTP is valid for <b>5 minutes</b>.</p>
<p>Do not share this OTP with anyone.</p>
<p>Regards,<br><b>Community Admin</b></p>
</div>`, code)

	return m.send(to, "Your OTP for Community Registration", body)
}

func (m *Mailer) SendApproval(to, name, membershipID string) error {
	body := fmt.Sprintf(`<div style="font-family:Arial,sans-serif">
<h2>Membership Approved</h2>
<p>Dear <b>%s</b>,</p>
<p>Congratulations! Your registration has been <b>successfully approved</b>.</p>
<p><b>Your Membership ID:</b> %s</p>
<p>You are now an official member of our community.</p>
<p>Warm regards,<br><b>Community Admin Team</b></p>
</div>`, name, membershipID)

	return m.send(to, "Membership Approved – Welcome!", body)
}

func (m *Mailer) SendRejection(to, name, registrationID, reason string) error {
	body := fmt.Sprintf(`<div style="font-family:Arial,sans-serif">
<h2>Community Registration Update</h2>
<p>Dear <b>%s</b>,</p>
<p>Thank you for submitting your registration request (<b>%s</b>).
After careful review, we regret to inform you that your application
could not be approved at this time.</p>
<p><b>Reason:</b></p>
<blockquote>%s</blockquote>
<p>If you believe this decision was made in error, please contact our
support team.</p>
<p>Regards,<br><b>Community Administration Team</b></p>
</div>`, name, registrationID, reason)

	return m.send(to, "Update on Your Community Registration", body)
}
