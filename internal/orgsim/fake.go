package orgsim

import (
	"fmt"
	"strings"
)

const (
	emailDomain = "company.co.ro"
	videoDomain = "xweb.com"
	phonePrefix = "+40"
)

func fakeEmailAddress(name string) string {
	return strings.ToLower(fmt.Sprintf("%s@%s", name, emailDomain))
}

func fakeVideoLink(name string) string {
	return strings.ToLower(fmt.Sprintf("https://company.%s/%s", videoDomain, name))
}

func (b *Builder) fakePhoneNumber() string {
	var sb strings.Builder
	sb.WriteString(phonePrefix)
	sb.WriteByte("6789"[b.rng.Intn(4)])
	for i := 0; i < 10; i++ {
		sb.WriteByte(byte('0' + b.rng.Intn(10)))
	}
	return sb.String()
}
