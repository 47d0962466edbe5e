package server

// examples are small canned programs served by /api/example/:name.
var examples = map[string]string{
	"load_store": `# write 123 -> mem[100], read back to R1
LOAD_CONST,0,123
WRITE_MEM,0,100

LOAD_CONST,2,100
READ_MEM,2,1,0
`,

	"pow_simple": `# pow(2,3)=8 -> mem[800]
# MEM[600] = 2
LOAD_CONST,0,2
WRITE_MEM,0,600

# MEM[700] = 3
LOAD_CONST,0,3
WRITE_MEM,0,700

# R10 = 600  (base address)
LOAD_CONST,10,600
# R11 = 700  (exponent address)
LOAD_CONST,11,700

# R12 = pow(MEM[R10+0], MEM[R11]) = pow(2,3) = 8
POW,11,12,0,10
WRITE_MEM,12,800
`,

	"copy_array": `# init source 300..302 then copy to 400..402
LOAD_CONST,5,11
WRITE_MEM,5,300
LOAD_CONST,5,22
WRITE_MEM,5,301
LOAD_CONST,5,33
WRITE_MEM,5,302

LOAD_CONST,0,300

READ_MEM,0,2,0
WRITE_MEM,2,400

READ_MEM,0,3,1
WRITE_MEM,3,401

READ_MEM,0,4,2
WRITE_MEM,4,402
`,
}
