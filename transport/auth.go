// MD5 and SCRAM-SHA-256 password authentication (§6: "SCRAM-SHA-256 and MD5
// password paths").
package transport

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	pqcfg "github.com/pq-async/pqgo/config"
	pqwire "github.com/pq-async/pqgo/internal/wire"

	perrors "github.com/pq-async/pqgo/errors"

	"golang.org/x/crypto/pbkdf2"
)

func (c *Conn) handleAuth(cfg *pqcfg.ConnConfig) error {
	for {
		msg, err := c.readRawMessage()
		if err != nil {
			return err
		}
		switch msg.Type {
		case pqwire.TagErrorResponse:
			return parseErrorResponse(msg.Payload)
		case pqwire.TagAuthentication:
			done, err := c.handleAuthMessage(msg.Payload, cfg)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		default:
			return perrors.Newf(perrors.KindProtocolViolation, "unexpected message 0x%x during authentication", msg.Type)
		}
	}
}

func (c *Conn) handleAuthMessage(payload []byte, cfg *pqcfg.ConnConfig) (done bool, err error) {
	r := pqwire.NewReader(payload)
	code, err := r.Int32()
	if err != nil {
		return false, err
	}
	switch code {
	case pqwire.AuthOK:
		return true, nil
	case pqwire.AuthCleartextPwd:
		msg := pqwire.BuildPasswordMessage(append([]byte(cfg.Password), 0))
		_, err := c.netConn.Write(msg)
		return false, wrapSendErr(err)
	case pqwire.AuthMD5Pwd:
		salt, err := r.Bytes(4)
		if err != nil {
			return false, err
		}
		hash := md5HexAuth(cfg.User, cfg.Password, salt)
		msg := pqwire.BuildPasswordMessage(append([]byte(hash), 0))
		_, werr := c.netConn.Write(msg)
		return false, wrapSendErr(werr)
	case pqwire.AuthSASL:
		return false, c.startSCRAM(r, cfg)
	default:
		return false, perrors.Newf(perrors.KindUnsupportedFormat, "unsupported authentication method code %d", code)
	}
}

func wrapSendErr(err error) error {
	if err == nil {
		return nil
	}
	return perrors.Wrap(perrors.KindConnectionFailure, err, "failed to send password message")
}

// md5HexAuth implements Postgres's MD5 auth formula:
// "md5" + md5hex(md5hex(password+user) + salt).
func md5HexAuth(user, password string, salt []byte) string {
	inner := md5.Sum([]byte(password + user))
	innerHex := hex.EncodeToString(inner[:])
	outer := md5.Sum(append([]byte(innerHex), salt...))
	return "md5" + hex.EncodeToString(outer[:])
}

// scramState carries the values threaded through the SCRAM-SHA-256
// exchange across the two server messages it spans.
type scramState struct {
	clientNonce       string
	clientFirstBare   string
	serverFirst       string
	saltedPassword    []byte
}

func (c *Conn) startSCRAM(r *pqwire.Reader, cfg *pqcfg.ConnConfig) error {
	mechanisms := []string{}
	for {
		mech, err := r.CString()
		if err != nil || mech == "" {
			break
		}
		mechanisms = append(mechanisms, mech)
	}
	found := false
	for _, m := range mechanisms {
		if m == "SCRAM-SHA-256" {
			found = true
		}
	}
	if !found {
		return perrors.New(perrors.KindUnsupportedFormat, "server offered no supported SASL mechanism")
	}

	nonce := make([]byte, 18)
	if _, err := rand.Read(nonce); err != nil {
		return perrors.Wrap(perrors.KindConnectionFailure, err, "generating client nonce")
	}
	clientNonce := base64.StdEncoding.EncodeToString(nonce)
	clientFirstBare := fmt.Sprintf("n=,r=%s", clientNonce)
	clientFirst := "n,," + clientFirstBare

	st := &scramState{clientNonce: clientNonce, clientFirstBare: clientFirstBare}
	if _, err := c.netConn.Write(pqwire.BuildSASLInitialResponse("SCRAM-SHA-256", []byte(clientFirst))); err != nil {
		return wrapSendErr(err)
	}

	msg, err := c.readRawMessage()
	if err != nil {
		return err
	}
	if msg.Type == pqwire.TagErrorResponse {
		return parseErrorResponse(msg.Payload)
	}
	if msg.Type != pqwire.TagAuthentication {
		return perrors.New(perrors.KindProtocolViolation, "expected AuthenticationSASLContinue")
	}
	ar := pqwire.NewReader(msg.Payload)
	code, _ := ar.Int32()
	if code != pqwire.AuthSASLContinue {
		return perrors.Newf(perrors.KindProtocolViolation, "expected SASLContinue, got code %d", code)
	}
	st.serverFirst = string(ar.Rest())

	fields := parseSCRAMFields(st.serverFirst)
	serverNonce := fields["r"]
	salt, err := base64.StdEncoding.DecodeString(fields["s"])
	if err != nil {
		return perrors.Wrap(perrors.KindProtocolViolation, err, "invalid SCRAM salt")
	}
	var iterCount int
	fmt.Sscanf(fields["i"], "%d", &iterCount)
	if !strings.HasPrefix(serverNonce, clientNonce) {
		return perrors.New(perrors.KindProtocolViolation, "SCRAM server nonce does not extend client nonce")
	}

	st.saltedPassword = pbkdf2.Key([]byte(cfg.Password), salt, iterCount, 32, sha256.New)
	clientFinalNoProof := fmt.Sprintf("c=biws,r=%s", serverNonce)
	authMessage := st.clientFirstBare + "," + st.serverFirst + "," + clientFinalNoProof

	clientKey := hmacSHA256(st.saltedPassword, []byte("Client Key"))
	storedKey := sha256.Sum256(clientKey)
	clientSig := hmacSHA256(storedKey[:], []byte(authMessage))
	clientProof := xorBytes(clientKey, clientSig)

	clientFinal := clientFinalNoProof + ",p=" + base64.StdEncoding.EncodeToString(clientProof)
	if _, err := c.netConn.Write(pqwire.BuildSASLResponse([]byte(clientFinal))); err != nil {
		return wrapSendErr(err)
	}

	msg2, err := c.readRawMessage()
	if err != nil {
		return err
	}
	if msg2.Type == pqwire.TagErrorResponse {
		return parseErrorResponse(msg2.Payload)
	}
	if msg2.Type != pqwire.TagAuthentication {
		return perrors.New(perrors.KindProtocolViolation, "expected AuthenticationSASLFinal")
	}
	fr := pqwire.NewReader(msg2.Payload)
	code2, _ := fr.Int32()
	if code2 != pqwire.AuthSASLFinal {
		return perrors.Newf(perrors.KindProtocolViolation, "expected SASLFinal, got code %d", code2)
	}
	finalFields := parseSCRAMFields(string(fr.Rest()))
	serverKey := hmacSHA256(st.saltedPassword, []byte("Server Key"))
	serverSig := hmacSHA256(serverKey, []byte(authMessage))
	wantSig, err := base64.StdEncoding.DecodeString(finalFields["v"])
	if err != nil || !hmac.Equal(wantSig, serverSig) {
		return perrors.New(perrors.KindServerError, "SCRAM server signature mismatch")
	}

	msg3, err := c.readRawMessage()
	if err != nil {
		return err
	}
	if msg3.Type == pqwire.TagErrorResponse {
		return parseErrorResponse(msg3.Payload)
	}
	if msg3.Type != pqwire.TagAuthentication {
		return perrors.New(perrors.KindProtocolViolation, "expected AuthenticationOk after SCRAM")
	}
	fr2 := pqwire.NewReader(msg3.Payload)
	code3, _ := fr2.Int32()
	if code3 != pqwire.AuthOK {
		return perrors.Newf(perrors.KindServerError, "authentication failed, code %d", code3)
	}
	return nil
}

func parseSCRAMFields(s string) map[string]string {
	out := map[string]string{}
	for _, part := range strings.Split(s, ",") {
		if len(part) < 2 || part[1] != '=' {
			continue
		}
		out[part[:1]] = part[2:]
	}
	return out
}

func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}

func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}
