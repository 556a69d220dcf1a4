package urlcheck

import "testing"

func TestValidateRejectsBadSchemes(t *testing.T) {
	for _, u := range []string{"ftp://example.com/file", "file:///etc/passwd", "javascript:alert(1)", "not a url"} {
		if err := Validate(u); err == nil {
			t.Errorf("Validate(%q) should fail", u)
		}
	}
}

func TestValidateRejectsPrivateAddresses(t *testing.T) {
	cases := []string{
		"http://127.0.0.1/admin",
		"http://127.0.0.1:8080/",
		"http://10.0.0.5/internal",
		"http://192.168.1.1/router",
		"http://172.16.0.1/",
		"http://169.254.169.254/latest/meta-data/",
		"http://0.0.0.0/",
		"http://[::1]/",
		"http://localhost/",
		"http://service.localhost/",
	}
	for _, u := range cases {
		if err := Validate(u); err == nil {
			t.Errorf("Validate(%q) should fail", u)
		}
	}
}

func TestValidateAcceptsPublicLiterals(t *testing.T) {
	// Literal public IPs don't need the resolver, so this stays offline.
	if err := Validate("http://93.184.216.34/"); err != nil {
		t.Errorf("Validate(public IP) failed: %v", err)
	}
}
