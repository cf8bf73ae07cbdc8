package cache

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// FingerprintService одна услуга нормализованного запроса
type FingerprintService struct {
	ServiceID uuid.UUID
	StaffID   *uuid.UUID
	Order     int
}

// Fingerprint строит детерминированный ETag нормализованного запроса
// (дата, локация, канонизированные тройки услуга/сотрудник/порядок).
// Совпадение означает, что кешированный ответ переиспользуем.
func Fingerprint(dateISO string, locationID uuid.UUID, services []FingerprintService) string {
	canon := make([]FingerprintService, len(services))
	copy(canon, services)
	sort.SliceStable(canon, func(i, j int) bool { return canon[i].Order < canon[j].Order })

	var sb strings.Builder
	sb.WriteString(dateISO)
	sb.WriteByte('|')
	sb.WriteString(locationID.String())
	for _, s := range canon {
		sb.WriteByte('|')
		sb.WriteString(s.ServiceID.String())
		sb.WriteByte(':')
		if s.StaffID != nil {
			sb.WriteString(s.StaffID.String())
		}
		sb.WriteByte(':')
		fmt.Fprintf(&sb, "%d", s.Order)
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(sb.String()))
	return fmt.Sprintf(`W/"%016x"`, h.Sum64())
}
