package gpudesc

import (
	"github.com/cogentcore/webgpu/wgpu"

	gekko "github.com/gekko3d/gekko-collide"
	"github.com/gekko3d/gekko-collide/narrowphase"
	"github.com/gekko3d/gekko-collide/raytrace"
)

// SafeBufferSizeLimit is a warning threshold, not a hard cap; a single
// world's node array should never get anywhere near it.
const SafeBufferSizeLimit = 1024 * 1024 * 1024

// BufferManager owns the storage buffers backing the GPU deployment's
// collision arrays. Buffers grow geometrically and are rewritten in
// place each step; the bound compute pipelines see the same bindings
// across frames unless a resize recreated a buffer.
type BufferManager struct {
	Device *wgpu.Device

	TLASNodesBuf *wgpu.Buffer
	BLASNodesBuf *wgpu.Buffer
	InstancesBuf *wgpu.Buffer
	ContactsBuf  *wgpu.Buffer

	logger gekko.Logger
}

func NewBufferManager(device *wgpu.Device, logger gekko.Logger) *BufferManager {
	if logger == nil {
		logger = gekko.NewNopLogger()
	}
	return &BufferManager{Device: device, logger: logger}
}

// UploadScene writes the TLAS node array, the per-instance transform
// table and every instance's BLAS node array (concatenated, in
// instance order). Returns true when any buffer had to be recreated,
// meaning bind groups referencing it must be rebuilt.
func (m *BufferManager) UploadScene(tlas *raytrace.TLAS) bool {
	recreated := false

	if m.ensureBuffer("TLASNodesBuf", &m.TLASNodesBuf, NodesBytes(tlas.Tree), wgpu.BufferUsageStorage) {
		recreated = true
	}
	if m.ensureBuffer("InstancesBuf", &m.InstancesBuf, InstancesBytes(tlas), wgpu.BufferUsageStorage) {
		recreated = true
	}

	blasData := []byte{}
	for i := range tlas.Instances {
		blasData = append(blasData, NodesBytes(tlas.Instances[i].BLAS.Tree)...)
	}
	if len(blasData) == 0 {
		blasData = make([]byte, NodeStride)
	}
	if m.ensureBuffer("BLASNodesBuf", &m.BLASNodesBuf, blasData, wgpu.BufferUsageStorage) {
		recreated = true
	}
	return recreated
}

// UploadContacts writes the step's contact stream for a GPU-resident
// solver to consume.
func (m *BufferManager) UploadContacts(buf *narrowphase.ContactBuffer) bool {
	return m.ensureBuffer("ContactsBuf", &m.ContactsBuf, ContactsBytes(buf.Contacts()), wgpu.BufferUsageStorage)
}

func (m *BufferManager) ensureBuffer(name string, buf **wgpu.Buffer, data []byte, usage wgpu.BufferUsage) bool {
	neededSize := uint64(len(data))
	if neededSize%4 != 0 {
		neededSize += 4 - (neededSize % 4)
	}

	current := *buf
	usage = usage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc

	if current == nil || current.GetSize() < neededSize {
		newSize := neededSize
		if current != nil {
			growthSize := uint64(float64(current.GetSize()) * 1.5)
			if growthSize > newSize {
				newSize = growthSize
			}
		}
		if newSize > SafeBufferSizeLimit {
			m.logger.Warnf("gpudesc: buffer %s allocation size %d exceeds safety limit %d", name, newSize, SafeBufferSizeLimit)
		}

		newBuf, err := m.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label:            name,
			Size:             newSize,
			Usage:            usage,
			MappedAtCreation: false,
		})
		if err != nil {
			panic(err)
		}
		if current != nil {
			current.Release()
		}
		*buf = newBuf
		if len(data) > 0 {
			m.Device.GetQueue().WriteBuffer(*buf, 0, data)
		}
		return true
	}

	if len(data) > 0 {
		m.Device.GetQueue().WriteBuffer(*buf, 0, data)
	}
	return false
}
