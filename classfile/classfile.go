package classfile

import "fmt"

// RawClassFile is the header, constant pool and interface list of a class
// file. Index fields are stored as read; Validate checks them.
type RawClassFile struct {
	MinorVersion      uint16
	MajorVersion      uint16
	ConstantPoolCount uint16
	ConstantPool      ConstantPool
	AccessFlags       AccessFlags
	ThisClass         uint16
	SuperClass        uint16
	Interfaces        []uint16
}

func (cf *RawClassFile) Version() string {
	return fmt.Sprintf("%d.%d", cf.MajorVersion, cf.MinorVersion)
}

func (cf *RawClassFile) ClassName() (string, error) {
	return cf.ConstantPool.GetClassName(cf.ThisClass)
}

// SuperClassName returns "" without error when super_class is 0, which is
// only the case for java/lang/Object and module-info.
func (cf *RawClassFile) SuperClassName() (string, error) {
	if cf.SuperClass == 0 {
		return "", nil
	}
	return cf.ConstantPool.GetClassName(cf.SuperClass)
}

func (cf *RawClassFile) InterfaceNames() ([]string, error) {
	names := make([]string, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		name, err := cf.ConstantPool.GetClassName(idx)
		if err != nil {
			return nil, fmt.Errorf("interface %d: %w", i, err)
		}
		names[i] = name
	}
	return names, nil
}
