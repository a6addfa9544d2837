package iostore

import (
	"fmt"

	"github.com/huangsam/pkgpulse/schema"
)

// PrintStoreStatus prints record store status information.
func PrintStoreStatus(status schema.StoreStatus) {
	fmt.Printf("Store Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Records: %d\n", status.TotalRecords)
	if status.TotalRecords > 0 {
		fmt.Printf("Last Write: %s\n", status.LastWriteTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Write: %s\n", status.OldestWriteTime.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Store Size: %d bytes\n", status.SizeBytes)
}
