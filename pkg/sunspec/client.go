package sunspec

import (
	"context"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
	"sunspecengine/pkg/sunspec/runtime"
	"sunspecengine/pkg/utils/regutil"
)

// Client discovers the SunSpec register map on a device and reads model
// blocks through a Transport.
//
// A Client holds the result of its latest Scan as its only mutable state and
// assumes exclusive use of its transport. It performs no internal locking:
// callers invoking Scan, ReadModel or ReadAll from multiple goroutines must
// serialize access themselves.
type Client struct {
	transport     Transport
	catalog       *Catalog
	interpreter   *Interpreter
	baseAddresses []uint16
	scan          *runtime.ScanResult
}

// Option configures a Client.
type Option func(*Client)

// WithBaseAddresses overrides the candidate base addresses probed during Scan.
func WithBaseAddresses(addresses ...uint16) Option {
	return func(c *Client) {
		c.baseAddresses = addresses
	}
}

// NewClient returns a client reading through the given transport and
// resolving model definitions from the given catalog.
func NewClient(transport Transport, catalog *Catalog, opts ...Option) *Client {
	c := &Client{
		transport:     transport,
		catalog:       catalog,
		interpreter:   &Interpreter{},
		baseAddresses: runtime.DefaultBaseAddresses,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect establishes the underlying transport connection.
func (c *Client) Connect(ctx context.Context) error {
	if err := c.transport.Connect(ctx); err != nil {
		klog.V(2).InfoS("Failed to connect transport", "error", err)
		return errors.Wrapf(runtime.ErrTransport, "connect: %v", err)
	}
	return nil
}

// Close closes the underlying transport connection. A prior scan result is
// kept.
func (c *Client) Close(ctx context.Context) error {
	if err := c.transport.Close(ctx); err != nil {
		klog.V(2).InfoS("Failed to close transport", "error", err)
		return errors.Wrapf(runtime.ErrTransport, "close: %v", err)
	}
	return nil
}

// read fetches count registers at address, splitting into transport reads of
// at most MaxRegistersPerRead and concatenating the parts in order.
func (c *Client) read(ctx context.Context, address uint16, count uint16) ([]uint16, error) {
	regs := make([]uint16, 0, count)
	var offset uint16
	for remaining := count; remaining > 0; {
		chunk := remaining
		if chunk > runtime.MaxRegistersPerRead {
			chunk = runtime.MaxRegistersPerRead
		}
		part, err := c.transport.ReadRegisters(ctx, address+offset, chunk)
		if err != nil {
			return nil, errors.Wrapf(runtime.ErrTransport, "read %d registers at %d: %v", chunk, address+offset, err)
		}
		if len(part) != int(chunk) {
			klog.V(2).InfoS("Failed to read full register block", "address", address+offset, "want", chunk, "got", len(part))
			return nil, errors.Wrapf(runtime.ErrProtocol, "short read at %d: want %d registers, got %d", address+offset, chunk, len(part))
		}
		regs = append(regs, part...)
		remaining -= chunk
		offset += chunk
	}
	return regs, nil
}

// Scan locates the SunSpec signature among the candidate base addresses and
// walks the model header chain until the end marker. The result replaces any
// previous scan.
func (c *Client) Scan(ctx context.Context) (*runtime.ScanResult, error) {
	var base uint16
	found := false
	for _, candidate := range c.baseAddresses {
		regs, err := c.read(ctx, candidate, 2)
		if err != nil {
			if errors.Is(err, runtime.ErrTransport) {
				klog.V(3).InfoS("No response probing base candidate", "address", candidate, "error", err)
				continue
			}
			return nil, err
		}
		if string(regutil.RegistersToBytes(regs)) == runtime.Signature {
			base = candidate
			found = true
			break
		}
	}
	if !found {
		return nil, errors.Wrapf(runtime.ErrScan, "signature %q not found at candidates %v", runtime.Signature, c.baseAddresses)
	}

	models := make([]runtime.DiscoveredModel, 0)
	pointer := base + 2
	for {
		header, err := c.read(ctx, pointer, 2)
		if err != nil {
			return nil, err
		}
		modelID, length := header[0], header[1]
		if modelID == runtime.EndModelID {
			break
		}
		models = append(models, runtime.DiscoveredModel{
			ModelID:     modelID,
			Length:      length,
			DataAddress: pointer + 2,
		})
		pointer += 2 + length
	}

	c.scan = &runtime.ScanResult{BaseAddress: base, Models: models}
	klog.V(2).InfoS("Discovered SunSpec model chain", "baseAddress", base, "models", len(models))
	return c.scan, nil
}

func (c *Client) ensureScan() (*runtime.ScanResult, error) {
	if c.scan == nil {
		return nil, errors.Wrap(runtime.ErrScan, "scan not yet performed")
	}
	return c.scan, nil
}

// ReadModel reads and parses the first discovered model with the given id.
func (c *Client) ReadModel(ctx context.Context, modelID uint16) (*runtime.ModelParseResult, error) {
	scan, err := c.ensureScan()
	if err != nil {
		return nil, err
	}
	var discovered *runtime.DiscoveredModel
	for i := range scan.Models {
		if scan.Models[i].ModelID == modelID {
			discovered = &scan.Models[i]
			break
		}
	}
	if discovered == nil {
		return nil, errors.Wrapf(runtime.ErrModelNotFound, "model %d not present in scan", modelID)
	}
	regs, err := c.read(ctx, discovered.DataAddress, discovered.Length)
	if err != nil {
		return nil, err
	}
	model, err := c.catalog.GetByID(modelID)
	if err != nil {
		return nil, err
	}
	return c.interpreter.Parse(model, regs)
}

// ReadAll reads and parses every discovered model that has a loaded
// definition. Models without one are skipped, vendor extensions are expected.
func (c *Client) ReadAll(ctx context.Context) (map[uint16]*runtime.ModelParseResult, error) {
	scan, err := c.ensureScan()
	if err != nil {
		return nil, err
	}
	out := make(map[uint16]*runtime.ModelParseResult, len(scan.Models))
	for _, discovered := range scan.Models {
		model, err := c.catalog.GetByID(discovered.ModelID)
		if err != nil {
			klog.V(3).InfoS("Skipping model without definition", "modelId", discovered.ModelID)
			continue
		}
		regs, err := c.read(ctx, discovered.DataAddress, discovered.Length)
		if err != nil {
			return nil, err
		}
		result, err := c.interpreter.Parse(model, regs)
		if err != nil {
			return nil, err
		}
		out[discovered.ModelID] = result
	}
	return out, nil
}
