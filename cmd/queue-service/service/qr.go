package service

import (
	"encoding/base64"
	"fmt"

	"github.com/coffeecorner/queue/cmd/queue-service/models"
	qrcode "github.com/skip2/go-qrcode"
)

const qrImageSize = 256

// GenerateTableQR opens a QR session for table and returns its id with a PNG data URL
// encoding <base_url>/table/<qr_id>
func (s *VirtualQueueService) GenerateTableQR(table int) (string, string, error) {
	if table < 1 || table > s.manager.TotalTables() {
		return "", "", fmt.Errorf("%w: table %d", ErrNotFound, table)
	}

	session := models.NewQRSession(table, s.settings.QRSessionTTL, s.now())
	url := fmt.Sprintf("%s/table/%s", s.settings.BaseURL, session.QRID)

	png, err := qrcode.Encode(url, qrcode.Low, qrImageSize)
	if err != nil {
		return "", "", fmt.Errorf("failed to render QR code: %w", err)
	}

	s.qrMu.Lock()
	s.qrSessions[session.QRID] = session
	s.qrMu.Unlock()

	s.log.Info("generated table QR code", "table", table, "qr_id", session.QRID)
	return session.QRID, "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// ScanTableQR records a scan; unknown or expired codes are not found
func (s *VirtualQueueService) ScanTableQR(qrID, sessionID string) (*models.TableWelcome, error) {
	s.qrMu.Lock()
	defer s.qrMu.Unlock()

	session, ok := s.qrSessions[qrID]
	if !ok || !session.Scan(sessionID, s.now()) {
		return nil, fmt.Errorf("%w: qr code %s", ErrNotFound, qrID)
	}

	s.log.Info("table QR scanned", "table", session.TableNumber, "session_id", sessionID)
	return &models.TableWelcome{
		TableNumber:    session.TableNumber,
		SessionID:      sessionID,
		QRID:           qrID,
		CanOrder:       true,
		WelcomeMessage: fmt.Sprintf("Welcome to Table %d! I'm here to help you order and answer any questions.", session.TableNumber),
	}, nil
}

// ActiveQRSessions counts unexpired QR sessions and drops expired ones
func (s *VirtualQueueService) ActiveQRSessions() int {
	s.qrMu.Lock()
	defer s.qrMu.Unlock()

	now := s.now()
	for id, session := range s.qrSessions {
		if !session.IsValid(now) {
			delete(s.qrSessions, id)
		}
	}
	return len(s.qrSessions)
}
