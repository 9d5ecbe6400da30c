package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"kgc/registry-api/model"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// SMSClient delivers OTP codes through the provider's flow API.
type SMSClient struct {
	HTTP *http.Client
}

func NewSMSClient() *SMSClient {
	return &SMSClient{
		HTTP: &http.Client{Timeout: 10 * time.Second},
	}
}

type smsRecipient struct {
	Mobiles string `json:"mobiles"`
	OTP     string `json:"otp"`
}

type smsFlowRequest struct {
	FlowID     string         `json:"flow_id"`
	Recipients []smsRecipient `json:"recipients"`
}

func (s *SMSClient) SendOTPSMS(mobile, code string) error {
	if !viper.GetBool("sms.enabled") {
		zap.L().Info("SMS delivery disabled, skipping", zap.String("mobile", mobile))
		return nil
	}

	payload := smsFlowRequest{
		FlowID: viper.GetString("sms.template_id"),
		Recipients: []smsRecipient{
			{Mobiles: "91" + mobile, OTP: code},
		},
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, viper.GetString("sms.endpoint"), bytes.NewReader(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("authkey", viper.GetString("sms.auth_key"))

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sms provider returned %d: %s", resp.StatusCode, body)
	}

	return nil
}

// ChannelDispatcher routes OTP codes to the transport matching the
// verification channel.
type ChannelDispatcher struct {
	Mailer *Mailer
	SMS    *SMSClient
}

func (d *ChannelDispatcher) SendOTP(channel, identifier, code string) error {
	switch channel {
	case model.ChannelMobile:
		return d.SMS.SendOTPSMS(identifier, code)
	case model.ChannelEmail:
		return d.Mailer.SendOTPEmail(identifier, code)
	default:
		return fmt.Errorf("unknown verification channel %q", channel)
	}
}
